package facility

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the account endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account endpoints on the given (public) route
// group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a facility account from a JSON payload.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if _, err := h.svc.Register(c.Request().Context(), req); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "user_created"})
}

// Login exchanges form-encoded credentials for a bearer token. The username
// field carries the account email.
func (h *Handler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	token, err := h.svc.Login(c.Request().Context(), username, password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func httpError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	}
	var aerr *AuthError
	if errors.As(err, &aerr) {
		return echo.NewHTTPError(http.StatusUnauthorized, aerr.Error())
	}
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "account store unavailable")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
