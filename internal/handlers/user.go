package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/auth"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/services"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User, password string) (string, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type UserHandler struct {
	users  UserStore
	tokens *auth.TokenManager
	log    logrus.FieldLogger
}

func NewUserHandler(users UserStore, tokens *auth.TokenManager, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, log: log}
}

// CreateUser handles POST /api/user
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user := &models.User{FullName: req.FullName, Email: req.Email, Role: req.Role}
	id, err := h.users.CreateUser(r.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.WithError(err).Error("Failed to create user")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.WithError(err).Error("Failed to log user in")
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		h.log.WithError(err).Error("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
		"user":      user,
	})
}

// Me handles GET /api/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	user, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.WithError(err).Error("Failed to fetch user")
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
