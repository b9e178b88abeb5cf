package handler

import (
	"encoding/json"
	"net/http"

	"github.com/contacts-api/internal/application/account"
	"github.com/contacts-api/internal/application/auth"
	"github.com/contacts-api/internal/domain"
	"github.com/contacts-api/internal/pkg/validate"
	"github.com/contacts-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// 5 MiB is plenty for an avatar and keeps multipart parsing bounded.
const maxAvatarSize = 5 << 20

// AuthHandler handles registration, login, token refresh, email
// verification, and the authenticated profile endpoints.
type AuthHandler struct {
	authSvc    auth.Service
	accountSvc account.Service
}

func NewAuthHandler(authSvc auth.Service, accountSvc account.Service) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, accountSvc: accountSvc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pair, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token required")
		return
	}
	pair, err := h.authSvc.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authSvc.VerifyEmail(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AuthHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	a, err := h.accountSvc.SetAvatar(r.Context(), caller.AccountID, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
