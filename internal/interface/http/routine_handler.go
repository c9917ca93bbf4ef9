package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
)

// ListRoutines returns the user's routines, AI-generated and manual alike.
func (h *Handler) ListRoutines(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	routines, err := h.routineMgr.List(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	if routines == nil {
		routines = []routine.Routine{}
	}
	c.JSON(http.StatusOK, gin.H{"items": routines})
}

// GetRoutine returns one routine.
func (h *Handler) GetRoutine(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	rt, err := h.routineMgr.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// CreateRoutine stores a user-authored routine.
func (h *Handler) CreateRoutine(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req routine.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	rt, err := h.routineMgr.Create(c.Request.Context(), userID, req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// UpdateRoutine edits a user-authored routine.
func (h *Handler) UpdateRoutine(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routine.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	rt, err := h.routineMgr.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// DeleteRoutine removes a routine.
func (h *Handler) DeleteRoutine(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.routineMgr.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type generatePayload struct {
	Type *string `json:"type"`
}

// GenerateRoutines synthesizes AI routines on demand. Without a type the
// request regenerates every routine type and reports per-type outcomes.
func (h *Handler) GenerateRoutines(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var payload generatePayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	if payload.Type != nil {
		routineType, err := routine.ParseRoutineType(*payload.Type)
		if err != nil {
			abortWithAppError(c, err)
			return
		}
		result, err := h.engine.Synthesize(c.Request.Context(), userID, routineType)
		if err != nil {
			abortWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	report, err := h.engine.RegenerateAll(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
