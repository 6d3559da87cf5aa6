package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Healthchecker(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	ConfirmEmail(w http.ResponseWriter, r *http.Request)
	RequestEmail(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	UpdateAvatar(w http.ResponseWriter, r *http.Request)
}

type ContactHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	Birthdays(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Auth    AuthHandler
	User    UserHandler
	Contact ContactHandler

	Metrics http.Handler

	// Global middlewares, outermost first.
	Global []func(http.Handler) http.Handler

	AuthMW      func(http.Handler) http.Handler
	ModeratorMW func(http.Handler) http.Handler

	// Per-route rate limits; nil entries mean unlimited.
	LoginRL    func(http.Handler) http.Handler
	SignupRL   func(http.Handler) http.Handler
	UsersRL    func(http.Handler) http.Handler
	ContactsRL func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.User == nil {
		return nil, fmt.Errorf("nil User handler")
	}
	if deps.Contact == nil {
		return nil, fmt.Errorf("nil Contact handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.ModeratorMW == nil {
		return nil, fmt.Errorf("nil Moderator middleware")
	}

	pass := func(next http.Handler) http.Handler { return next }
	if deps.LoginRL == nil {
		deps.LoginRL = pass
	}
	if deps.SignupRL == nil {
		deps.SignupRL = pass
	}
	if deps.UsersRL == nil {
		deps.UsersRL = pass
	}
	if deps.ContactsRL == nil {
		deps.ContactsRL = pass
	}

	r := chi.NewRouter()
	for _, mw := range deps.Global {
		r.Use(mw)
	}

	r.Get("/healthz", deps.Health.Healthz)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthchecker", deps.Health.Healthchecker)

		r.Route("/auth", func(r chi.Router) {
			r.With(deps.SignupRL).Post("/signup", deps.Auth.Signup)
			r.With(deps.LoginRL).Post("/login", deps.Auth.Login)
			r.Get("/refresh_token", deps.Auth.Refresh)
			r.With(deps.AuthMW).Post("/logout", deps.Auth.Logout)
			r.Get("/confirmed_email/{token}", deps.Auth.ConfirmEmail)
			r.Post("/request_email", deps.Auth.RequestEmail)
		})

		r.Route("/users", func(r chi.Router) {
			// Auth first so the limiter keys on the user, not the IP.
			r.Use(deps.AuthMW, deps.UsersRL)
			r.Get("/me", deps.User.Me)
			r.Patch("/avatar", deps.User.UpdateAvatar)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Use(deps.AuthMW, deps.ContactsRL)

			r.Post("/", deps.Contact.Create)
			r.Get("/", deps.Contact.List)
			r.Get("/search", deps.Contact.Search)
			r.Get("/birthdays", deps.Contact.Birthdays)
			r.With(deps.ModeratorMW).Get("/all", deps.Contact.ListAll)

			r.Get("/{contactID}", deps.Contact.Get)
			r.Put("/{contactID}", deps.Contact.Update)
			r.Delete("/{contactID}", deps.Contact.Delete)
		})
	})

	return r, nil
}
