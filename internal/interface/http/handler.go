package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
	"github.com/glowedge/skincare-backend/internal/domain/routine"
	"github.com/glowedge/skincare-backend/internal/domain/user"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	catalogSvc *catalog.Service
	routineMgr *routine.Manager
	engine     *routine.Engine
	userSvc    *user.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(catalogSvc *catalog.Service, routineMgr *routine.Manager, engine *routine.Engine, userSvc *user.Service, logger *slog.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		routineMgr: routineMgr,
		engine:     engine,
		userSvc:    userSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func mustUserID(c *gin.Context) (int64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing user identity", nil))
		return 0, false
	}
	return userID, true
}
