package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// SyncHandler exposes the manual sync trigger and the notification board.
type SyncHandler struct {
	sync     *app.SyncService
	notifier ports.Notifier
}

// NewSyncHandler creates a new sync handler. Either dependency may be nil,
// in which case its endpoints are not registered.
func NewSyncHandler(sync *app.SyncService, notifier ports.Notifier) *SyncHandler {
	return &SyncHandler{
		sync:     sync,
		notifier: notifier,
	}
}

// SyncRequest is the optional body of POST /api/v1/sync.
type SyncRequest struct {
	Policy string `json:"policy" validate:"policy"`
}

// SyncResponse summarizes a completed sync.
type SyncResponse struct {
	Policy  string `json:"policy"`
	Changed bool   `json:"changed"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
	Removed int    `json:"removed"`
}

// NotificationsResponse lists the notifications that have not expired.
type NotificationsResponse struct {
	Notifications []ports.Notification `json:"notifications"`
}

// RegisterRoutes registers the sync and notification endpoints.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	if h.sync != nil {
		rg.POST("/sync", h.Sync)
	}

	if h.notifier != nil {
		rg.GET("/notifications", h.Notifications)
	}
}

// Sync handles POST /api/v1/sync
// Fetches the remote collection and applies it with the configured policy,
// or with the policy given in the body.
//
// @Summary Sync with the remote server
// @Tags sync
// @Accept json
// @Produce json
// @Param request body SyncRequest false "Policy override"
// @Success 200 {object} SyncResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/sync [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	var req SyncRequest

	if c.Request.ContentLength != 0 {
		if err := dto.BindAndValidate(c, &req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	outcome, err := h.sync.Sync(c.Request.Context(), app.SyncRequest{
		Trigger: app.TriggerManual,
		Policy:  domain.Policy(req.Policy),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SyncResponse{
		Policy:  string(outcome.Policy),
		Changed: outcome.Changed,
		Added:   outcome.Added,
		Updated: outcome.Updated,
		Removed: outcome.Removed,
	})
}

// Notifications handles GET /api/v1/notifications
// Returns the messages that are still visible, oldest first.
//
// @Summary List active notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} NotificationsResponse
// @Router /api/v1/notifications [get]
func (h *SyncHandler) Notifications(c *gin.Context) {
	active := h.notifier.Active()
	if active == nil {
		active = []ports.Notification{}
	}

	c.JSON(http.StatusOK, NotificationsResponse{Notifications: active})
}
