package api

import (
	"bytes"
	"net/http"
	"strconv"
)

// ImagesHandler serves the rendered images.
type ImagesHandler struct {
	deps ImageDependencies
}

// NewImagesHandler creates a new images handler.
func NewImagesHandler(deps ImageDependencies) *ImagesHandler {
	return &ImagesHandler{deps: deps}
}

// HandlePitch handles GET /pitch.webp requests.
func (h *ImagesHandler) HandlePitch(w http.ResponseWriter, r *http.Request) {
	const op = "api.pitch"
	data, contentType, err := h.deps.Pitch(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// HandleOverview handles GET /overview.png requests.
func (h *ImagesHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.overview"
	var buf bytes.Buffer
	if err := h.deps.Overview(r.Context(), &buf); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}
