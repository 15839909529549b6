package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joed123/GoogleCloudCourseManager/auth0"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
	"github.com/joed123/GoogleCloudCourseManager/utils"
	"go.uber.org/zap"
)

// CredentialExchanger trades a username/password pair for a bearer
// token at the identity provider.
type CredentialExchanger interface {
	ExchangeCredentials(ctx context.Context, username, password string) (string, error)
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles login requests
type AuthHandler struct {
	exchanger CredentialExchanger
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(exchanger CredentialExchanger, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		exchanger: exchanger,
		logger:    logger,
	}
}

// HandleLogin handles POST /users/login.
// Credential checking is entirely the identity provider's business;
// this endpoint only relays the exchange.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	if h.exchanger == nil {
		h.logger.Error("identity provider not configured",
			zap.String("request_id", requestID))
		_ = utils.WriteInternalServerError(w)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		_ = utils.WriteBadRequest(w)
		return
	}

	token, err := h.exchanger.ExchangeCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth0.ErrLoginRejected) {
			h.logger.Warn("login rejected",
				zap.String("request_id", requestID),
				zap.String("username", req.Username))
			_ = utils.WriteUnauthorized(w)
			return
		}
		h.logger.Error("token exchange failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}
