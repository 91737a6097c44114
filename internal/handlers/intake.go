package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"jobbook/internal/identity"
	"jobbook/internal/services"
)

// routeRecorder captures the controller's navigate signal so the handler
// can relay it to the client as a redirect hint.
type routeRecorder struct {
	path string
}

func (r *routeRecorder) NavigateTo(path string) { r.path = path }

// respondError maps controller errors onto HTTP statuses: identity-not-
// ready asks the client to retry after sign-in, everything else is an
// unprocessable request.
func respondError(c echo.Context, err error) error {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, services.ErrIdentityNotReady) {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// IntakeHandler binds the intake form controller to the JSON API.
type IntakeHandler struct {
	svc    *services.IntakeService
	logger *zap.Logger
}

func NewIntakeHandler(svc *services.IntakeService, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{svc: svc, logger: logger}
}

func (h *IntakeHandler) Register(g *echo.Group) {
	g.GET("/intake", h.GetState)
	g.POST("/intake", h.Submit)
	g.DELETE("/intake", h.Clear)
}

// GetState returns the form's current phase and draft.
func (h *IntakeHandler) GetState(c echo.Context) error {
	view := h.svc.State(identity.FromContext(c))
	return c.JSON(http.StatusOK, view)
}

type submitIntakeRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

type intakeResponse struct {
	services.IntakeView
	Navigate string `json:"navigate,omitempty"`
}

// Submit replaces the draft with the posted fields and attempts to save.
// Validation failures come back as 422 with the message in the view; the
// draft is retained so the user can correct and re-submit.
func (h *IntakeHandler) Submit(c echo.Context) error {
	var req submitIntakeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	rec := &routeRecorder{}
	view, err := h.svc.Submit(identity.FromContext(c), services.IntakeDraft{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
	}, rec)
	if err != nil {
		return respondError(c, err)
	}

	status := http.StatusOK
	if view.Error != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, intakeResponse{IntakeView: view, Navigate: rec.path})
}

// Clear destroys the stored intake record.
func (h *IntakeHandler) Clear(c echo.Context) error {
	if err := h.svc.Clear(identity.FromContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
