package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

type Server struct {
	customers *usecase.CustomerUC
	items     *usecase.ItemUC
	purchases *usecase.PurchaseUC
}

func New(customers *usecase.CustomerUC, items *usecase.ItemUC, purchases *usecase.PurchaseUC) http.Handler {
	s := &Server{customers: customers, items: items, purchases: purchases}

	r := chi.NewRouter()
	r.Use(RequestID, Logging, Recovery)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", s.createCustomer)
			r.Get("/{taxID}", s.getCustomer)
			r.Put("/{taxID}", s.updateCustomer)
			r.Delete("/{taxID}", s.deleteCustomer)
		})
		r.Route("/items", func(r chi.Router) {
			r.Post("/", s.createItem)
			r.Post("/import", s.importItems)
			r.Get("/", s.listItems)
			r.Get("/{id}", s.getItem)
			r.Put("/{id}", s.updateItem)
			r.Delete("/{id}", s.deleteItem)
		})
		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", s.createPurchase)
			r.Get("/{id}", s.getPurchase)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrDuplicate):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
