package handler

import (
	"context"
	"net/http"
	"time"

	"portfolio-backend/store"

	"github.com/rs/zerolog/log"
)

// LikesHandler handles the global like counter. Likes are anonymous and
// unlimited: any caller may increment repeatedly.
type LikesHandler struct {
	likes     store.LikeStore
	opTimeout time.Duration
}

// NewLikesHandler creates a new likes handler
func NewLikesHandler(likes store.LikeStore, opTimeout time.Duration) *LikesHandler {
	return &LikesHandler{likes: likes, opTimeout: opTimeout}
}

// Get handles GET /likes
func (h *LikesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	count, err := h.likes.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch like count")
		SendError(w, http.StatusInternalServerError, "Failed to fetch like count")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": count})
}

// Increment handles POST /likes
func (h *LikesHandler) Increment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	count, err := h.likes.Increment(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to increment like count")
		SendError(w, http.StatusInternalServerError, "Failed to increment like count")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": count})
}
