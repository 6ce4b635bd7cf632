package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"breathe-backend/domain/technique"
	"breathe-backend/pkg/common"
	"breathe-backend/pkg/errors"
	"breathe-backend/pkg/utils"
)

// TechniqueHandler serves the public technique catalog
type TechniqueHandler struct {
	catalog         *technique.Holder
	recommendations int
	errs            *errors.ErrorHandler
	logger          *zap.Logger
}

// NewTechniqueHandler creates a new technique handler
func NewTechniqueHandler(catalog *technique.Holder, recommendations int, errs *errors.ErrorHandler, logger *zap.Logger) *TechniqueHandler {
	return &TechniqueHandler{
		catalog:         catalog,
		recommendations: recommendations,
		errs:            errs,
		logger:          logger,
	}
}

type listTechniquesParams struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Sort       string `json:"sort" validate:"omitempty,oneof=health-impact name difficulty"`
}

// ListTechniques handles GET /techniques
func (h *TechniqueHandler) ListTechniques(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := listTechniquesParams{
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Sort:       q.Get("sort"),
	}
	if err := utils.ValidateStruct(params); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	list := h.catalog.Catalog().List(technique.Filter{
		Category:   params.Category,
		Difficulty: params.Difficulty,
		Sort:       params.Sort,
	})
	common.RespondJSON(w, http.StatusOK, list)
}

// ListCategories handles GET /techniques/categories
func (h *TechniqueHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.catalog.Catalog().Categories())
}

// GetTechnique handles GET /techniques/{techniqueID}
func (h *TechniqueHandler) GetTechnique(w http.ResponseWriter, r *http.Request) {
	t, ok := h.catalog.Catalog().Get(chi.URLParam(r, "techniqueID"))
	if !ok {
		h.errs.Handle(w, r, errors.NewNotFoundError("Technique"))
		return
	}
	common.RespondJSON(w, http.StatusOK, t)
}

// Recommend handles GET /techniques/recommend/{goal}
func (h *TechniqueHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	goal := chi.URLParam(r, "goal")
	common.RespondJSON(w, http.StatusOK, h.catalog.Catalog().Recommend(goal, h.recommendations))
}
