// Package httpapi serves a read-only JSON view of a running session so
// external UIs can poll it.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mrdg/typebeat/log"
	"github.com/mrdg/typebeat/pattern"
	"github.com/mrdg/typebeat/play"
)

// Source is the session being served. *play.Runner implements it.
type Source interface {
	Snapshot() (play.Snapshot, error)
	Results() (play.SongResults, error)
}

type Server struct {
	src      Source
	patterns *pattern.Registry
	log      *log.Logger
	handler  http.Handler
}

type patternList struct {
	Drums []string `json:"drums"`
	Bass  []string `json:"bass"`
}

func New(src Source, patterns *pattern.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{src: src, patterns: patterns, log: logger}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	router.HandleFunc("/results", s.handleResults).Methods(http.MethodGet)
	router.HandleFunc("/patterns", s.handlePatterns).Methods(http.MethodGet)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infof("http: serving session state on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.src.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.write(w, snap)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	res, err := s.src.Results()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.write(w, res)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	list := patternList{Drums: []string{}, Bass: []string{}}
	if s.patterns != nil {
		list.Drums = s.patterns.DrumIDs()
		list.Bass = s.patterns.BassIDs()
	}
	s.write(w, list)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, play.ErrNotComplete):
		code = http.StatusNotFound
	case errors.Is(err, play.ErrClosed):
		code = http.StatusServiceUnavailable
	default:
		s.log.Errorf("http: %v", err)
	}
	http.Error(w, err.Error(), code)
}

func (s *Server) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warnf("http: write response: %v", err)
	}
}
