package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes регистрирует маршруты. authenticate применяется ко всем маршрутам, кроме выхода;
// api - ко всем, кроме websocket.
func (h *Handler) Routes(r chi.Router, authenticate func(http.Handler) http.Handler, api ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(api...)
		r.Post("/auth/signout", h.SignOut)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/ws", h.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(api...)

			r.Get("/health", h.HealthCheck)

			r.Post("/auth/signup", h.SignUp)
			r.Post("/auth/signin", h.SignIn)
			r.Get("/auth/me", h.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.GetTasks)
				r.Post("/", h.PostTask)
				r.Put("/{id}", h.PutTask)
				r.Patch("/{id}/status", h.PatchTaskStatus)
				r.Delete("/{id}", h.DeleteTask)
			})

			r.Route("/blogs", func(r chi.Router) {
				r.Get("/", h.GetBlogs)
				r.Post("/", h.PostBlog)
				r.Get("/{id}", h.GetBlog)
				r.Put("/{id}", h.PutBlog)
				r.Delete("/{id}", h.DeleteBlog)
			})
		})
	})
}
