package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/patientconnect/api/internal/platform/auth"
)

// Handler exposes the patient visit endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the patient endpoints on the given (authenticated)
// route group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.Search)
	g.POST("/visit", h.SubmitVisit)
}

// submitRequest is the submission envelope: who the patient is, plus the
// clinical payload for this encounter.
type submitRequest struct {
	PatientSearch VisitSearch  `json:"patient_search"`
	VisitDetails  VisitDetails `json:"visit_details"`
}

type searchResponse struct {
	Visits []*VisitRecord `json:"visits"`
}

// Search returns the patient's aggregated visit history across facilities.
func (h *Handler) Search(c echo.Context) error {
	if _, ok := auth.PrincipalFromContext(c.Request().Context()); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var search VisitSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	visits, err := h.svc.SearchVisits(c.Request().Context(), search)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, searchResponse{Visits: visits})
}

// SubmitVisit validates and records a new visit for the identified patient.
func (h *Handler) SubmitVisit(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := h.svc.SubmitVisit(c.Request().Context(), req.PatientSearch, req.VisitDetails, principal)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, rec)
}

// httpError maps domain errors onto HTTP status codes: malformed input is the
// caller's fault, a store failure is a dependency outage.
func httpError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	}
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "record store unavailable")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
