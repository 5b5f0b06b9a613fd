package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/wishlist"
)

// wishlistHandler represents an HTTP handler for the user's wishlist.
type wishlistHandler struct {
	router chi.Router

	wishlistService wishlist.WishlistService
}

// newWishlistHandler returns a new instance of wishlistHandler. Routes that
// act on the caller's wishlist are wrapped with auth.
func newWishlistHandler(auth func(http.Handler) http.Handler) *wishlistHandler {
	h := &wishlistHandler{router: chi.NewRouter()}
	h.router.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.handlePost)
		r.Post("/get", h.handlePostGet)
		r.Post("/merchant", h.handlePostMerchant)
		r.Post("/delete/{id}", h.handlePostDelete)
	})
	h.router.Post("/interested", h.handlePostInterested)
	return h
}

// ServeHTTP implements http.Handler.
func (h *wishlistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *wishlistHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	entry, err := h.wishlistService.AddEntry(r.Context(), req.MerchantID, req.ProductID)
	if err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, entry)
}

type addEntryRequest struct {
	MerchantID string `json:"merchantId"`
	ProductID  string `json:"productId"`
}

func (h *wishlistHandler) handlePostGet(w http.ResponseWriter, r *http.Request) {
	entries, err := h.wishlistService.Entries(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, entries)
}

func (h *wishlistHandler) handlePostMerchant(w http.ResponseWriter, r *http.Request) {
	var req merchantEntriesRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	entries, err := h.wishlistService.EntriesByMerchant(r.Context(), req.MerchantID)
	if err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, entries)
}

type merchantEntriesRequest struct {
	MerchantID string `json:"merchantId"`
}

func (h *wishlistHandler) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlistService.RemoveEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, &messageResponse{Msg: "Wishlist item removed"})
}

func (h *wishlistHandler) handlePostInterested(w http.ResponseWriter, r *http.Request) {
	var req interestedRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	n, err := h.wishlistService.CountInterested(r.Context(), req.ProductID)
	if err != nil {
		Error(w, r, err)
		return
	}
	encodeJSON(w, r, &interestedResponse{Count: n})
}

type interestedRequest struct {
	ProductID string `json:"productId"`
}

type interestedResponse struct {
	Count int `json:"count"`
}
