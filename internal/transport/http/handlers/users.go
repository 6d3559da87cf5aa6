package http_handlers

import (
	"net/http"

	"github.com/contacthub/contacthub/internal/application/auth"
	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/transport/http/dto"
	"github.com/contacthub/contacthub/internal/transport/http/middleware"
	"github.com/contacthub/contacthub/internal/transport/http/response"
)

// avatars over 5 MiB are rejected before touching the image host
const maxAvatarBytes = 5 << 20

type UserHandler struct {
	svc *auth.Service
}

func NewUserHandler(svc *auth.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	response.OK(w, dto.NewUserView(u))
}

// UpdateAvatar handles PATCH /api/users/avatar with a multipart "file"
// field.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		response.WriteError(w, r, domain.ErrInvalidField("file", "multipart form required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.WriteError(w, r, domain.ErrMissingField("file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.svc.UpdateAvatar(r.Context(), u, header.Filename, contentType, file, header.Size)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(updated))
}
