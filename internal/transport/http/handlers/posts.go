package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/anshul4117/Blog/internal/errors"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/service"
	"github.com/anshul4117/Blog/internal/transport/http/middleware"
)

type postRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
	Published bool     `json:"published"`
}

type postListResponse struct {
	Length int           `json:"length"`
	Posts  []models.Post `json:"posts"`
}

type myPostsResponse struct {
	Length int                    `json:"length"`
	Posts  []models.PostWithLikes `json:"posts"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in postRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), claims.UserID, in.Title, in.Content, in.Tags, in.Published)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in postRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	post := &models.Post{
		ID:        chi.URLParam(r, "id"),
		AuthorID:  claims.UserID,
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		Published: in.Published,
	}

	if err := h.svc.UpdatePost(r.Context(), post); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	if err := h.svc.DeletePost(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.PostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.PostQuery{
		AuthorID: q.Get("author"),
		Tag:      q.Get("tag"),
		Page:     parseInt64(q.Get("page")),
		Limit:    parseInt64(q.Get("limit")),
	}

	posts, err := h.svc.ListPosts(r.Context(), query)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postListResponse{Length: len(posts), Posts: posts})
}

func (h *Handlers) MyPosts(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	posts, err := h.svc.MyPosts(r.Context(), claims.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, myPostsResponse{Length: len(posts), Posts: posts})
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}

	return v
}
