package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/joed123/GoogleCloudCourseManager/filestore"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
	"github.com/joed123/GoogleCloudCourseManager/repositories"
	"github.com/joed123/GoogleCloudCourseManager/utils"
	"go.uber.org/zap"
)

const avatarContentType = "image/png"

// avatarKey is the single blob key per user
func avatarKey(userID int64) string {
	return fmt.Sprintf("avatars/%d.png", userID)
}

// AvatarURLResponse carries the avatar's fetch URL after an upload
type AvatarURLResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// AvatarHandler handles avatar blob HTTP requests. Every route is
// self-only, enforced by the route policy; the caller in context is
// always the addressed user.
type AvatarHandler struct {
	users  repositories.UserRepository
	store  filestore.Store
	logger *zap.Logger
}

// NewAvatarHandler creates a new AvatarHandler
func NewAvatarHandler(users repositories.UserRepository, store filestore.Store, logger *zap.Logger) *AvatarHandler {
	return &AvatarHandler{
		users:  users,
		store:  store,
		logger: logger,
	}
}

// HandleUpload handles POST /users/{id}/avatar.
// Blob first, flag second: both steps are idempotent, so a retry after
// a partial failure converges on a consistent pair.
func (h *AvatarHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)
	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = utils.WriteBadRequest(w)
		return
	}
	defer file.Close()

	if err := h.store.Put(ctx, avatarKey(user.ID), file, header.Size, avatarContentType); err != nil {
		h.logger.Error("failed to store avatar",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	if err := h.users.SetAvatar(ctx, user.ID, true); err != nil {
		h.logger.Error("failed to set avatar flag",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, AvatarURLResponse{
		AvatarURL: avatarURL(baseURL(r), user.ID),
	})
}

// HandleGet handles GET /users/{id}/avatar, streaming the stored PNG
func (h *AvatarHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)
	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	blob, err := h.store.Get(ctx, avatarKey(user.ID))
	if err != nil {
		if errors.Is(err, filestore.ErrBlobNotFound) {
			_ = utils.WriteNotFound(w)
			return
		}
		h.logger.Error("failed to fetch avatar",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", avatarContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, blob); err != nil {
		h.logger.Warn("avatar stream interrupted",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}
}

// HandleDelete handles DELETE /users/{id}/avatar
func (h *AvatarHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)
	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	if err := h.store.Delete(ctx, avatarKey(user.ID)); err != nil {
		if errors.Is(err, filestore.ErrBlobNotFound) {
			_ = utils.WriteNotFound(w)
			return
		}
		h.logger.Error("failed to delete avatar",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	if err := h.users.SetAvatar(ctx, user.ID, false); err != nil {
		h.logger.Error("failed to clear avatar flag",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	utils.WriteNoContent(w)
}
