package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CarShelf/pkg/kit"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Service *Service
	Log     *zap.Logger

	// Ready is checked by /readyz; a nil entry is skipped.
	Ready []Pinger

	// Limiter throttles /api per client address when set.
	Limiter *kit.IPRateLimiter
}

type listResponse struct {
	Cars        []Item `json:"cars"`
	TotalCars   int    `json:"totalCars"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
}

type lookupResponse struct {
	Cars []Item `json:"cars"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		for _, p := range s.Ready {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				if s.Log != nil {
					s.Log.Warn("readyz failed", zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(rr chi.Router) {
		if s.Limiter != nil {
			rr.Use(s.Limiter.Middleware)
		}
		rr.Get("/cars", s.list)
		rr.Get("/cars/{id}", s.get)
		rr.Get("/facets", s.facets)
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, r.URL.Query())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteJSON(w, http.StatusOK, lookupResponse{Cars: []Item{}})
		return
	}

	// Any integer in the path is a lookup, negative ones included.
	res, err := s.Service.Query(r.Context(), Query{ID: &id})
	if err != nil {
		s.writeQueryError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, lookupResponse{Cars: res.Cars})
}

func (s *Server) facets(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Service.Facets())
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, params url.Values) {
	res, err := s.Service.Handle(r.Context(), params)
	if err != nil {
		s.writeQueryError(w, r, err)
		return
	}

	if res.ByID {
		kit.WriteJSON(w, http.StatusOK, lookupResponse{Cars: res.Cars})
		return
	}
	kit.WriteJSON(w, http.StatusOK, listResponse{
		Cars:        res.Cars,
		TotalCars:   res.TotalCars,
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
	})
}

func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Client went away during the delay; nobody reads the answer.
		return
	case errors.Is(err, context.DeadlineExceeded):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		if s.Log != nil {
			s.Log.Error("catalog query failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
