package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/contacts-api/internal/application/contact"
	"github.com/contacts-api/internal/domain"
	"github.com/contacts-api/internal/pkg/validate"
	"github.com/contacts-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ContactHandler handles the owner-scoped contact endpoints. The owner id
// always comes from the authenticated account in the request context, never
// from the request payload.
type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	req, ok := decodeContactRequest(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Create(r.Context(), caller.AccountID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	contacts, err := h.svc.List(r.Context(), caller.AccountID, skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	c, err := h.svc.Get(r.Context(), caller.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	req, ok := decodeContactRequest(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Update(r.Context(), caller.AccountID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	c, err := h.svc.Delete(r.Context(), caller.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter required")
		return
	}
	contacts, err := h.svc.Search(r.Context(), caller.AccountID, query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contacts, err := h.svc.UpcomingBirthdays(r.Context(), caller.AccountID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func decodeContactRequest(w http.ResponseWriter, r *http.Request) (domain.ContactRequest, bool) {
	var req domain.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
