package handlers

import (
	"net/http"
	"strings"
	"time"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventHandler handles HTTP requests for attendance events
type EventHandler struct {
	service service.EventServiceInterface
}

// NewEventHandler creates a new attendance event handler
func NewEventHandler(service service.EventServiceInterface) *EventHandler {
	return &EventHandler{service: service}
}

// RecordEvent handles POST /api/v1/events. The event is always stamped with
// the caller's identity; any member id in the body is ignored.
func (h *EventHandler) RecordEvent(c *gin.Context) {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req service.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	event, err := h.service.Record(caller, &req)
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// QueryEvents handles GET /api/v1/events. Explicit filters narrow the
// result within the caller's visibility; `grouped=true` returns per-day
// groups instead of a flat list.
func (h *EventHandler) QueryEvents(c *gin.Context) {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	req := buildQueryRequest(c)

	if c.Query("grouped") == "true" {
		groups, err := h.service.QueryGrouped(caller, req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query events", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"groups": groups})
		return
	}

	events, err := h.service.Query(caller, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query events", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ClockState handles GET /api/v1/events/state, reporting which attendance
// actions the caller may take right now.
func (h *EventHandler) ClockState(c *gin.Context) {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	state, err := h.service.ClockStateFor(caller.MemberID, time.Now(), time.Local)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute clock state", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// buildQueryRequest parses the loosely-typed query parameters once, at the
// boundary. Unparseable values are dropped rather than rejected; the date
// components degrade inside the service and viewing is never blocked.
func buildQueryRequest(c *gin.Context) *service.EventQueryRequest {
	req := &service.EventQueryRequest{}

	if raw := c.Query("tenant"); raw != "" && raw != "all" {
		if id, err := uuid.Parse(raw); err == nil {
			req.Scope.TenantID = &id
		}
	}

	if raw := c.Query("members"); raw != "" && raw != "all" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
				req.Scope.MemberIDs = append(req.Scope.MemberIDs, id)
			}
		}
	}

	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			req.Date.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			req.Date.To = &t
		}
	}
	req.Date.Year = c.Query("year")
	req.Date.Month = c.Query("month")
	req.Date.Day = c.Query("day")

	if raw := c.Query("kinds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			kind := models.EventKind(strings.TrimSpace(part))
			if kind.IsValid() {
				req.Kinds = append(req.Kinds, kind)
			}
		}
	}

	return req
}
