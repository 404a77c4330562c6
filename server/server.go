// Package server is the HTTP surface a browser-side 3D front end reads the
// scene geometry, moon badge and place search from.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/geocode"
	"github.com/echoflaresat/skydome/metrics"
	"github.com/echoflaresat/skydome/render"
	"github.com/echoflaresat/skydome/scene"
	"github.com/echoflaresat/skydome/trajectory"
)

const (
	minBadgeSize = 16
	maxBadgeSize = 1024
)

// Deps are the collaborators of a Server.
type Deps struct {
	Composer *scene.Composer
	Engine   ephem.Engine
	Searcher *geocode.Searcher
	Phase    render.Phase
	Defaults scene.Options
	Metrics  *metrics.Collector
	Log      *zap.Logger

	// Now supplies the default date; time.Now when nil.
	Now func() time.Time
}

type Server struct {
	deps Deps
	mux  *http.ServeMux
}

func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.route("GET /api/scene", "scene", s.handleScene)
	s.route("GET /api/moon.png", "moon", s.handleMoon)
	s.route("GET /api/search", "search", s.handleSearch)
	if deps.Metrics != nil {
		s.mux.Handle("GET /metrics", deps.Metrics.Handler())
	}
	return s
}

func (s *Server) route(pattern, name string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.deps.Metrics.Instrument(name, h))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.deps.Log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.deps.Log.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) date(r *http.Request) (trajectory.Date, error) {
	if v := r.URL.Query().Get("date"); v != "" {
		return trajectory.ParseDate(v)
	}
	return trajectory.DateOf(s.deps.Now().UTC()), nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func (s *Server) sceneOptions(r *http.Request) (scene.Options, error) {
	opts := s.deps.Defaults
	date, err := s.date(r)
	if err != nil {
		return opts, err
	}
	opts.Date = date

	if v := r.URL.Query().Get("step"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("step: %w", err)
		}
		opts.Step = time.Duration(minutes) * time.Minute
	}
	if opts.IncludeBelowHorizon, err = boolParam(r, "below", opts.IncludeBelowHorizon); err != nil {
		return opts, err
	}
	if opts.Dark, err = boolParam(r, "dark", opts.Dark); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	opts, err := s.sceneOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var slots scene.Slots
	for _, v := range r.URL.Query()["city"] {
		city, err := scene.ParseCity(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if _, err := slots.Add(city); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	started := time.Now()
	sc, err := s.deps.Composer.Build(r.Context(), &slots, opts)
	if err != nil {
		s.deps.Log.Error("scene build failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.deps.Metrics.ObserveScene(time.Since(started).Seconds(), len(sc.Skipped))
	s.writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	date, err := s.date(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	dark, err := boolParam(r, "dark", s.deps.Defaults.Dark)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	size := s.deps.Phase.Size
	if v := r.URL.Query().Get("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size < minBadgeSize || size > maxBadgeSize {
			s.writeError(w, http.StatusBadRequest,
				fmt.Errorf("size must be an integer in [%d, %d]", minBadgeSize, maxBadgeSize))
			return
		}
	}

	illum := s.deps.Engine.MoonIllumination(date.In(time.UTC).Add(12 * time.Hour))
	badge := render.NewBadge(s.deps.Phase, illum, dark)
	img := badge.Image
	if size != img.Bounds().Dx() {
		img = render.Resize(img, size)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Moon-Phase", badge.Name)
	w.Header().Set("X-Moon-Illumination", strconv.Itoa(badge.Percent()))
	if err := render.Encode(w, img, render.PNG); err != nil {
		s.deps.Log.Warn("encode badge", zap.Error(err))
	}
}

type searchResponse struct {
	Query   string          `json:"query"`
	Applied bool            `json:"applied"`
	Results []geocode.Place `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if s.deps.Searcher == nil {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("search is not configured"))
		return
	}
	places, applied := s.deps.Searcher.Search(r.Context(), q)
	s.deps.Metrics.ObserveSearch(applied)
	s.writeJSON(w, http.StatusOK, searchResponse{Query: q, Applied: applied, Results: places})
}
