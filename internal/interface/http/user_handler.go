package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowedge/skincare-backend/internal/domain/user"
)

// Login records a login and returns the updated streak.
func (h *Handler) Login(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	result, err := h.userSvc.RecordLogin(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me returns the caller's account and skin profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfile edits the caller's skin profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req user.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	u, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
