package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/auth"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/services"
)

type NotificationStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notifications NotificationStore
	log           logrus.FieldLogger
}

func NewNotificationHandler(notifications NotificationStore, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

// GetNotifications handles GET /api/notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	notifications, err := h.notifications.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch notifications")
		writeError(w, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PATCH /api/notifications/{notificationID}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	if err := h.notifications.MarkRead(r.Context(), claims.UserID, mux.Vars(r)["notificationID"]); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.log.WithError(err).Error("Failed to update notification")
		writeError(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
