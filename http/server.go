package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/middlemost/wishlist"
	"golang.org/x/crypto/acme/autocert"
)

// ShutdownTimeout is the time given to in-flight requests on close.
const ShutdownTimeout = 5 * time.Second

// Server represents an HTTP server.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Services
	PriceService    wishlist.PriceService
	WishlistService wishlist.WishlistService
	SessionService  wishlist.SessionService
	TokenService    wishlist.TokenService

	// Reports whether durable storage is reachable. Optional.
	StorageAvailable func() bool

	// Server options.
	Addr        string // bind address
	Host        string // external hostname
	Autocert    bool   // ACME autocert
	Recoverable bool   // panic recovery

	Logger *slog.Logger
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		Recoverable: true,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Open opens the listener. Requests are not served until Serve is called.
func (s *Server) Open() error {
	// Open listener on specified bind address.
	// Use HTTPS port if autocert is enabled.
	if s.Autocert {
		s.ln = autocert.NewListener(s.Host)
	} else {
		ln, err := net.Listen("tcp", s.Addr)
		if err != nil {
			return err
		}
		s.ln = ln
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Serve serves requests on the open listener until the server is closed.
func (s *Server) Serve() error {
	if s.server == nil {
		return errors.New("http: server not open")
	}
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		if s.ln != nil {
			return s.ln.Close()
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns a base URL string with the scheme and host.
// This is available after the server has been opened.
func (s *Server) URL() url.URL {
	if s.ln == nil {
		return url.URL{}
	}

	if s.Autocert {
		return url.URL{Scheme: "https", Host: s.Host}
	}
	return url.URL{Scheme: "http", Host: s.ln.Addr().String()}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Attach router middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests(s.Logger))
	if s.Recoverable {
		r.Use(middleware.Recoverer)
	}
	r.Use(allowAllOrigins)
	r.Mount("/debug", middleware.Profiler())

	// Create API routes.
	r.Route("/", func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/", s.handleIndex)
		r.Get("/ping", s.handlePing)
		r.Mount("/api/auth", s.authHandler())
		r.Mount("/api/products", s.productHandler())
		r.Mount("/api/wishlist", s.wishlistHandler())
	})

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	encodeJSON(w, r, &messageResponse{Msg: "Welcome to Wishlist API"})
}

// handlePing reports the server status and which storage is in use.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	storage := "memory"
	if s.StorageAvailable != nil && s.StorageAvailable() {
		storage = "durable"
	}
	encodeJSON(w, r, &pingResponse{Status: "ok", Storage: storage})
}

type pingResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (s *Server) authHandler() *authHandler {
	h := newAuthHandler()
	h.sessionService = s.SessionService
	return h
}

func (s *Server) productHandler() *productHandler {
	h := newProductHandler()
	h.priceService = s.PriceService
	return h
}

func (s *Server) wishlistHandler() *wishlistHandler {
	h := newWishlistHandler(authenticate(s.TokenService))
	h.wishlistService = s.WishlistService
	return h
}
