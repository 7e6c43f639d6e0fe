package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/anshul4117/Blog/internal/errors"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/service"
	"github.com/anshul4117/Blog/internal/transport/http/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	AccessToken     string             `json:"accessToken"`
	RefreshToken    string             `json:"refreshToken"`
	AccessExpiresAt time.Time          `json:"accessExpiresAt"`
	User            models.UserSummary `json:"user"`
}

func authResponseFrom(res *service.AuthResult) authResponse {
	return authResponse{
		AccessToken:     res.Tokens.AccessToken,
		RefreshToken:    res.Tokens.RefreshToken,
		AccessExpiresAt: res.Tokens.AccessExpiresAt,
		User:            res.User,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	res, err := h.svc.RegisterUser(r.Context(), in.Email, in.Username, in.Name, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponseFrom(res))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	res, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponseFrom(res))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	res, err := h.svc.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponseFrom(res))
}

// Logout требует валидный access-токен (роут за AuthRequired); сам токен
// берётся из Authorization и уходит в денайлист, refresh — из тела.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var in logoutRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	accessToken := middleware.BearerToken(r)

	if err := h.svc.Logout(r.Context(), accessToken, in.RefreshToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
