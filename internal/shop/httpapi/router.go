package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(ExtractTraceContext)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/orders", handler.ListOrders)
	r.Post("/orders", handler.CreateOrder)
	r.Get("/orders/{orderID}", handler.GetOrder)
	r.Post("/orders/{orderID}/cancel", handler.CancelOrder)
	r.Post("/orders/{orderID}/status/{status}", handler.UpdateStatus)
	return r
}
