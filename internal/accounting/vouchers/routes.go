package vouchers

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/preview", h.Preview)
	r.Post("/generate", h.Generate)
	r.Get("/check", h.Check)
	r.Get("/entries/{id}", h.Entry)
}
