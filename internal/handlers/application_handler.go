package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
	Actions      *services.ActionService
	// UserID scopes listing and stamps new records until real auth exists.
	UserID string
}

func NewApplicationHandler(apps *services.ApplicationService, actions *services.ActionService, userID string) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps, Actions: actions, UserID: userID}
}

// Register mounts the application routes on r.
func (h *ApplicationHandler) Register(r gin.IRouter) {
	r.GET("/applications", h.List)
	r.POST("/applications", h.Create)
	r.PUT("/applications/:id", h.Update)
	r.PATCH("/applications/:id", h.Action)
	r.DELETE("/applications/:id", h.Delete)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// List is GET /applications
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.Applications.List(c.Request.Context(), h.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.ListResponse{Success: true, Applications: apps})
}

// Create is POST /applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dtos.StatusResponse{Error: "Invalid JSON format: " + err.Error()})
		return
	}
	if req.UserID == "" {
		req.UserID = h.UserID
	}
	app, err := h.Applications.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.ApplicationResponse{Success: true, Application: app})
}

// Update is PUT /applications/:id with a single {field: value} body.
func (h *ApplicationHandler) Update(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dtos.StatusResponse{Error: "Invalid JSON format: " + err.Error()})
		return
	}
	if err := h.Applications.UpdateField(c.Request.Context(), c.Param("id"), body); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.StatusResponse{Success: true})
}

// Action is PATCH /applications/:id with {action, target?}.
func (h *ApplicationHandler) Action(c *gin.Context) {
	var req dtos.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dtos.StatusResponse{Error: "Invalid action: " + err.Error()})
		return
	}
	resp, err := h.Actions.Perform(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete is DELETE /applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.Applications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.StatusResponse{Success: true, Message: "Application removed successfully"})
}

func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidField),
		errors.Is(err, services.ErrInvalidValue),
		errors.Is(err, services.ErrUnknownAction):
		code = http.StatusBadRequest
	case errors.Is(err, services.ErrUpstream):
		code = http.StatusBadGateway
	}
	if code >= http.StatusInternalServerError {
		log.Printf("[api] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(code, dtos.StatusResponse{Error: err.Error()})
}
