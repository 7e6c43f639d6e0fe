package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/anshul4117/Blog/internal/errors"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/service"
	"github.com/anshul4117/Blog/internal/transport/http/middleware"
)

type commentRequest struct {
	ParentID string `json:"parentId,omitempty"`
	Content  string `json:"content"`
}

type commentListResponse struct {
	Length   int              `json:"length"`
	Comments []models.Comment `json:"comments"`
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in commentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	comment, err := h.svc.CreateComment(r.Context(), claims.UserID, chi.URLParam(r, "post_id"), in.ParentID, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.CommentsByPost(r.Context(), chi.URLParam(r, "post_id"), parseInt64(r.URL.Query().Get("limit")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentListResponse{Length: len(comments), Comments: comments})
}
