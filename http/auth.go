package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/wishlist"
)

// authHandler represents an HTTP handler for phone-based login.
type authHandler struct {
	router chi.Router

	sessionService wishlist.SessionService
}

// newAuthHandler returns a new instance of authHandler.
func newAuthHandler() *authHandler {
	h := &authHandler{router: chi.NewRouter()}
	h.router.Post("/send-otp", h.handlePostSendOTP)
	h.router.Post("/verify-otp", h.handlePostVerifyOTP)
	return h
}

// ServeHTTP implements http.Handler.
func (h *authHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *authHandler) handlePostSendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	user, err := h.sessionService.SendOTP(r.Context(), req.Phone)
	if err != nil {
		Error(w, r, err)
		return
	}

	encodeJSON(w, r, &sendOTPResponse{Msg: "OTP sent successfully", Phone: user.Phone})
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

type sendOTPResponse struct {
	Msg   string `json:"msg"`
	Phone string `json:"phone"`
}

func (h *authHandler) handlePostVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	session, err := h.sessionService.IssueSession(r.Context(), req.Phone, req.OTP)
	if err != nil {
		Error(w, r, err)
		return
	}

	encodeJSON(w, r, &verifyOTPResponse{Token: session.Token})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type verifyOTPResponse struct {
	Token string `json:"token"`
}
