package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

type purchaseLineRequest struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

type createPurchaseRequest struct {
	CustomerTaxID   string                `json:"customer_tax_id"`
	DeliveryAddress string                `json:"delivery_address"`
	Items           []purchaseLineRequest `json:"items"`
}

type purchaseLineResponse struct {
	ItemID          int             `json:"item_id"`
	PurchaseID      int             `json:"purchase_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"unit_price_at_purchase"`
}

type purchaseResponse struct {
	ID              int                    `json:"id"`
	PurchasedAt     *time.Time             `json:"purchased_at"`
	Status          string                 `json:"status"`
	DeliveryAddress string                 `json:"delivery_address"`
	Total           decimal.Decimal        `json:"total_price"`
	CustomerTaxID   *string                `json:"customer_tax_id"`
	Lines           []purchaseLineResponse `json:"lines"`
}

func toPurchaseResponse(p *domain.Purchase) purchaseResponse {
	resp := purchaseResponse{
		ID:              p.ID,
		PurchasedAt:     p.PurchasedAt,
		Status:          p.Status,
		DeliveryAddress: p.DeliveryAddress,
		Total:           p.Total,
		CustomerTaxID:   p.CustomerTaxID,
		Lines:           make([]purchaseLineResponse, 0, len(p.Lines())),
	}
	for _, l := range p.Lines() {
		line := purchaseLineResponse{
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase,
		}
		if l.Key.ItemID != nil {
			line.ItemID = *l.Key.ItemID
		}
		if l.Key.PurchaseID != nil {
			line.PurchaseID = *l.Key.PurchaseID
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}

func (s *Server) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.CustomerTaxID == "" || len(req.Items) == 0 {
		badRequest(w, "customer_tax_id and items are required")
		return
	}
	params := usecase.CreatePurchaseParams{
		CustomerTaxID:   req.CustomerTaxID,
		DeliveryAddress: req.DeliveryAddress,
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			badRequest(w, "quantity must be positive")
			return
		}
		params.Items = append(params.Items, usecase.PurchaseItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	p, err := s.purchases.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(p))
}

func (s *Server) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid purchase id")
		return
	}
	p, err := s.purchases.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponse(p))
}
