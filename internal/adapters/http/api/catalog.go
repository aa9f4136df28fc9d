package api

import (
	"net/http"
	"strconv"

	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/legend"
	"github.com/okian/freekicks/internal/domain/model"
)

// CatalogHandler serves the dataset and the chart's static lists.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type optionsResponse struct {
	Options []string `json:"options"`
}

type legendResponse struct {
	Swatches []legend.Swatch `json:"swatches"`
}

type recordsResponse struct {
	Records []model.Record `json:"records"`
}

// HandleOptions handles GET /options requests.
func (h *CatalogHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{Options: h.deps.Options(r.Context())})
}

// HandleLegend handles GET /legend requests.
func (h *CatalogHandler) HandleLegend(w http.ResponseWriter, r *http.Request) {
	const op = "api.legend"
	swatches, err := h.deps.Legend(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, legendResponse{Swatches: swatches})
}

// HandleRecords handles GET /records?club= requests.
func (h *CatalogHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	club := r.URL.Query().Get("club")
	if club == "" {
		club = filter.All
	}
	records := h.deps.Records(r.Context(), club)
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: records})
}

// HandleRecord handles GET /records/{id} requests.
func (h *CatalogHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.record"
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.Record(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
