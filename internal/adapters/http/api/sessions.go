package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/freekicks/internal/adapters/mq/queue"
	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/render"
)

// SessionsHandler drives viewer sessions.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

type sessionResponse struct {
	SessionID string       `json:"session_id"`
	Frame     chart.Frame  `json:"frame"`
	Diff      *render.Diff `json:"diff,omitempty"`
}

type filterRequest struct {
	Category string `json:"category"`
}

func (f filterRequest) validate() error {
	if strings.TrimSpace(f.Category) == "" {
		return errors.New("missing category")
	}
	return nil
}

type pointerRequest struct {
	ID *int `json:"id"`
}

func (p pointerRequest) validate() error {
	if p.ID == nil {
		return errors.New("missing id")
	}
	return nil
}

func respond(w http.ResponseWriter, status int, res queue.Result, withDiff bool) {
	out := sessionResponse{SessionID: res.SessionID, Frame: res.Frame}
	if withDiff {
		diff := res.Diff
		out.Diff = &diff
	}
	writeJSON(w, status, out)
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	res, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	respond(w, http.StatusCreated, res, true)
}

// HandleFrame handles GET /sessions/{sid}?settled= requests.
func (h *SessionsHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.frame"
	settled := false
	if v := r.URL.Query().Get("settled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		settled = b
	}
	res, err := h.deps.Frame(r.Context(), r.PathValue("sid"), settled)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	respond(w, http.StatusOK, res, false)
}

// HandleClose handles DELETE /sessions/{sid} requests.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_session"
	if err := h.deps.CloseSession(r.Context(), r.PathValue("sid")); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFilter handles POST /sessions/{sid}/filter requests.
func (h *SessionsHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	const op = "api.filter"
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Select(r.Context(), r.PathValue("sid"), req.Category)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	respond(w, http.StatusOK, res, true)
}

// HandleEnter handles POST /sessions/{sid}/enter requests.
func (h *SessionsHandler) HandleEnter(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, "api.enter", h.deps.PointerEnter)
}

// HandleLeave handles POST /sessions/{sid}/leave requests.
func (h *SessionsHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, "api.leave", h.deps.PointerLeave)
}

func (h *SessionsHandler) pointer(w http.ResponseWriter, r *http.Request, op string,
	apply func(ctx context.Context, sessionID string, id int) (queue.Result, error),
) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := apply(r.Context(), r.PathValue("sid"), *req.ID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	respond(w, http.StatusOK, res, false)
}

// HandleSVG handles GET /sessions/{sid}/chart.svg requests.
func (h *SessionsHandler) HandleSVG(w http.ResponseWriter, r *http.Request) {
	const op = "api.svg"
	var buf bytes.Buffer
	if err := h.deps.ExportSVG(r.Context(), r.PathValue("sid"), &buf); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}
