package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/wishlist"
	"github.com/shopspring/decimal"
)

// productHandler represents an HTTP handler for product prices.
type productHandler struct {
	router chi.Router

	priceService wishlist.PriceService
}

// newProductHandler returns a new instance of productHandler.
func newProductHandler() *productHandler {
	h := &productHandler{router: chi.NewRouter()}
	h.router.Post("/webhook", h.handlePostWebhook)
	h.router.Get("/{productID}/price-comparison", h.handleGetPriceComparison)
	h.router.Post("/price-comparison", h.handlePostPriceComparison)
	return h
}

// ServeHTTP implements http.Handler.
func (h *productHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// handlePostWebhook records a product price update from the storefront.
func (h *productHandler) handlePostWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	productID, err := parseProductID(req.ID)
	if err != nil {
		Error(w, r, err)
		return
	}
	price, err := wishlist.ParsePrice(req.Price)
	if err != nil {
		Error(w, r, err)
		return
	}

	if _, err := h.priceService.RecordPrice(r.Context(), productID, price); err != nil {
		Error(w, r, err)
		return
	}

	encodeJSON(w, r, &webhookResponse{Success: true})
}

type webhookRequest struct {
	ID    interface{} `json:"id"`
	Price interface{} `json:"price"`
	Title string      `json:"title,omitempty"`
}

type webhookResponse struct {
	Success bool `json:"success"`
}

func (h *productHandler) handleGetPriceComparison(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.priceService.ComparePriceHistory(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, newPriceComparisonResponse(cmp, false))
}

func (h *productHandler) handlePostPriceComparison(w http.ResponseWriter, r *http.Request) {
	var req priceComparisonRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	productID, err := parseProductID(req.ProductID)
	if err != nil {
		Error(w, r, err)
		return
	}
	price, err := wishlist.ParsePrice(req.Price)
	if err != nil {
		Error(w, r, err)
		return
	}

	cmp, err := h.priceService.CompareGivenPrice(r.Context(), productID, price)
	if err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, newPriceComparisonResponse(cmp, true))
}

type priceComparisonRequest struct {
	ProductID interface{} `json:"productId"`
	Price     interface{} `json:"price"`
}

type priceComparisonResponse struct {
	ProductID    string               `json:"productId"`
	CurrentPrice *json.Number         `json:"currentPrice"`
	LowestPrice  *json.Number         `json:"lowestPrice"`
	IsAllTimeLow bool                 `json:"isAllTimeLow"`
	PriceHistory []pricePointResponse `json:"priceHistory"`
}

type pricePointResponse struct {
	Price     json.Number `json:"price"`
	Timestamp time.Time   `json:"timestamp"`
	IsCurrent *bool       `json:"isCurrent,omitempty"`
}

// newPriceComparisonResponse converts cmp to its JSON form. Prices are
// written as exact JSON numbers. Entries carry isCurrent when withCurrent is set.
func newPriceComparisonResponse(cmp *wishlist.PriceComparison, withCurrent bool) *priceComparisonResponse {
	resp := &priceComparisonResponse{
		ProductID:    cmp.ProductID,
		CurrentPrice: nullPriceNumber(cmp.CurrentPrice),
		LowestPrice:  nullPriceNumber(cmp.LowestPrice),
		IsAllTimeLow: cmp.IsAllTimeLow,
		PriceHistory: make([]pricePointResponse, len(cmp.History)),
	}
	for i, pt := range cmp.History {
		resp.PriceHistory[i] = pricePointResponse{
			Price:     priceNumber(pt.Price),
			Timestamp: pt.Timestamp,
		}
		if withCurrent {
			current := pt.Current
			resp.PriceHistory[i].IsCurrent = &current
		}
	}
	return resp
}

func priceNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func nullPriceNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := priceNumber(d.Decimal)
	return &n
}

// parseProductID accepts a product id supplied as a JSON string or number.
func parseProductID(v interface{}) (string, error) {
	switch v := v.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s, nil
		}
	case json.Number:
		return v.String(), nil
	}
	return "", wishlist.ErrProductIDRequired
}
