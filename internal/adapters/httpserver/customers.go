package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

type customerRequest struct {
	TaxID         string `json:"tax_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	FiscalAddress string `json:"fiscal_address"`
}

type customerResponse struct {
	TaxID         string    `json:"tax_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	RegisteredAt  time.Time `json:"registered_at"`
	Phone         string    `json:"phone,omitempty"`
	FiscalAddress string    `json:"fiscal_address,omitempty"`
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	resp := customerResponse{
		TaxID:        c.TaxID,
		FullName:     c.FullName,
		Email:        c.Email,
		RegisteredAt: c.RegisteredAt,
	}
	if info := c.FiscalInfo(); info != nil {
		resp.Phone = info.Phone
		resp.FiscalAddress = info.FiscalAddress
	}
	return resp
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.TaxID == "" || req.FullName == "" || req.Email == "" {
		badRequest(w, "tax_id, full_name and email are required")
		return
	}
	c, err := s.customers.Create(r.Context(), usecase.CreateCustomerParams{
		TaxID:         req.TaxID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		FiscalAddress: req.FiscalAddress,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.customers.Get(r.Context(), chi.URLParam(r, "taxID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	c, err := s.customers.Update(r.Context(), chi.URLParam(r, "taxID"), usecase.UpdateCustomerParams{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		FiscalAddress: req.FiscalAddress,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.customers.Delete(r.Context(), chi.URLParam(r, "taxID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
