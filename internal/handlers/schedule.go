package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"jobbook/internal/identity"
	"jobbook/internal/services"
)

// ScheduleHandler binds the schedule controller to the JSON API.
type ScheduleHandler struct {
	svc    *services.ScheduleService
	logger *zap.Logger
}

func NewScheduleHandler(svc *services.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

func (h *ScheduleHandler) Register(g *echo.Group) {
	g.GET("/schedule", h.GetView)
	g.POST("/schedule/view", h.NavigateMonth)
	g.POST("/schedule/type", h.SelectType)
	g.POST("/schedule/dialog", h.Dialog)
	g.POST("/schedule/items", h.AddItem)
	g.DELETE("/schedule/items/:id", h.DeleteItem)
	g.POST("/schedule/clear", h.ClearAll)
	g.GET("/schedule/export.ics", h.ExportICS)
}

// GetView returns the rendered month grid with day buckets and the
// controller's view state.
func (h *ScheduleHandler) GetView(c echo.Context) error {
	view, err := h.svc.View(identity.FromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

func (h *ScheduleHandler) NavigateMonth(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view, err := h.svc.NavigateMonth(identity.FromContext(c), req.Direction)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type selectTypeRequest struct {
	Type string `json:"type"`
}

func (h *ScheduleHandler) SelectType(c echo.Context) error {
	var req selectTypeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view, err := h.svc.SelectType(identity.FromContext(c), req.Type)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type dialogRequest struct {
	DateKey string `json:"dateKey"`
	Close   bool   `json:"close"`
}

// Dialog opens the add-item modal for a day, or closes it when the close
// flag is set.
func (h *ScheduleHandler) Dialog(c echo.Context) error {
	var req dialogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	id := identity.FromContext(c)
	var (
		view services.ScheduleView
		err  error
	)
	if req.Close {
		view, err = h.svc.CloseDialog(id)
	} else {
		view, err = h.svc.OpenDialog(id, req.DateKey)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type addItemRequest struct {
	Title string `json:"title"`
}

func (h *ScheduleHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view, err := h.svc.AddItem(identity.FromContext(c), req.Title)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *ScheduleHandler) DeleteItem(c echo.Context) error {
	view, err := h.svc.DeleteItem(identity.FromContext(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type clearRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *ScheduleHandler) ClearAll(c echo.Context) error {
	var req clearRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view, err := h.svc.ClearAll(identity.FromContext(c), req.Confirm)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
