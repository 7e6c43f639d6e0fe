package handlers

import (
	"net/http"

	apierrors "github.com/anshul4117/Blog/internal/errors"
	"github.com/anshul4117/Blog/internal/service"
	"github.com/anshul4117/Blog/internal/transport/http/middleware"
)

type toggleLikeRequest struct {
	TargetID   string `json:"targetId"`
	TargetType string `json:"targetType"`
}

type toggleLikeResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in toggleLikeRequest
	if err := decodeStrict(r, &in); err != nil || in.TargetID == "" || in.TargetType == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	status, err := h.svc.ToggleLike(r.Context(), claims.UserID, in.TargetID, in.TargetType)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleLikeResponse{Status: status})
}

func (h *Handlers) LikeStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	targetID, targetType := q.Get("targetId"), q.Get("targetType")
	if targetID == "" || targetType == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	userID := ""
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		userID = claims.UserID
	}

	status, err := h.svc.LikeStatus(r.Context(), userID, targetID, targetType)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
