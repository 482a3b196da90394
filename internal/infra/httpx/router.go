package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", handler.State)
		r.Post("/operator", handler.ResolveOperator)
		r.Post("/catalog/reload", handler.ReloadCatalog)
		r.Get("/catalog/{size}/quantities", handler.Quantities)
		r.Post("/step", handler.GoStep)

		r.Post("/lines/quote", handler.QuoteLine)
		r.Post("/lines", handler.CommitLine)
		r.Post("/lines/{id}/edit", handler.EditLine)
		r.Delete("/lines/{id}", handler.RemoveLine)
		r.Put("/discount", handler.SetDiscount)

		r.Post("/client", handler.SubmitClient)
		r.Post("/cart/submit", handler.SubmitCart)

		r.Post("/payments", handler.RecordPayment)
		r.Put("/payment-form", handler.SavePaymentForm)
		r.Post("/save-changes", handler.SaveChanges)
		r.Post("/finish", handler.Finish)

		r.Get("/incomplete", handler.ListIncomplete)
		r.Post("/orders/{orderID}/resume", handler.ResumeOrder)
		r.Delete("/orders/{orderID}", handler.DiscardOrder)
	})

	return r
}
