package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"rental_ledger/internal/domain"
)

type Server struct {
	mux     *chi.Mux
	limiter domain.Limiter
}

// New builds the router. limiter throttles the external intake routes; nil
// leaves them unthrottled.
func New(limiter domain.Limiter) *Server {
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(60 * time.Second)) // exports can take a while
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m, limiter: limiter}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
