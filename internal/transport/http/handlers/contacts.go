package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contacthub/contacthub/internal/application/contacts"
	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/metrics"
	"github.com/contacthub/contacthub/internal/transport/http/dto"
	"github.com/contacthub/contacthub/internal/transport/http/middleware"
	"github.com/contacthub/contacthub/internal/transport/http/response"
)

type ContactHandler struct {
	svc *contacts.Service
}

func NewContactHandler(svc *contacts.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
	}
	return u, ok
}

func contactID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidField("contact_id", "positive integer required")
	}
	return id, nil
}

func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, offset
}

// Create handles POST /api/contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ContactCreateRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), u, req.Params())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	metrics.RecordContactCreated()
	response.Created(w, dto.NewContactView(c))
}

// List handles GET /api/contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, offset := pageParams(r)
	cs, err := h.svc.List(r.Context(), u, limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactViews(cs))
}

// ListAll handles GET /api/contacts/all. Router gates it behind the
// admin/moderator role check.
func (h *ContactHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	cs, err := h.svc.ListAll(r.Context(), limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactViews(cs))
}

// Get handles GET /api/contacts/{contactID}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := contactID(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), u, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactView(c))
}

// Update handles PUT /api/contacts/{contactID}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := contactID(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.ContactUpdateRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), u, id, req.Params())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactView(c))
}

// Delete handles DELETE /api/contacts/{contactID}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := contactID(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), u, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Search handles GET /api/contacts/search?q=...
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, offset := pageParams(r)
	cs, err := h.svc.Search(r.Context(), u, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactViews(cs))
}

// Birthdays handles GET /api/contacts/birthdays.
func (h *ContactHandler) Birthdays(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	cs, err := h.svc.UpcomingBirthdays(r.Context(), u)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactViews(cs))
}
