package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/presentation"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/filter"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Finder is the lookup surface served over HTTP.
type Finder interface {
	Find(ctx context.Context, q findsimulator.Query) (findsimulator.Result, error)
	FindPairs(ctx context.Context, name filter.Matcher) ([]domain.Device, error)
}

// Server holds the HTTP handlers.
type Server struct {
	Finder Finder

	apiVersion     string
	lenientPattern bool
	gatherer       prometheus.Gatherer
	logger         *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the collectors of gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLenientPatterns ignores regex parameters that do not compile instead of
// answering 400.
func WithLenientPatterns(lenient bool) Option {
	return func(s *Server) {
		s.lenientPattern = lenient
	}
}

// NewHandler creates the HTTP handler for finder.
// It fails if the embedded OpenAPI document does not validate.
func NewHandler(finder Finder, opts ...Option) (http.Handler, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Finder:     finder,
		apiVersion: swagger.Info.Version,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/healthz", s.GetHealth)
	r.Get("/v1/info", s.GetInfo)
	r.Get("/v1/devices", s.FindDevices)
	r.Get("/v1/pairs", s.FindPairs)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r, nil
}

// FindDevicesParams are the query parameters of GET /v1/devices.
type FindDevicesParams struct {
	Platform *string `form:"platform,omitempty" json:"platform,omitempty"`
	Major    *string `form:"major,omitempty" json:"major,omitempty"`
	Minor    *string `form:"minor,omitempty" json:"minor,omitempty"`
	Name     *string `form:"name,omitempty" json:"name,omitempty"`
	Regex    *string `form:"regex,omitempty" json:"regex,omitempty"`
	All      *bool   `form:"all,omitempty" json:"all,omitempty"`
}

// FindPairsParams are the query parameters of GET /v1/pairs.
type FindPairsParams struct {
	Name *string `form:"name,omitempty" json:"name,omitempty"`
	All  *bool   `form:"all,omitempty" json:"all,omitempty"`
}

// Device is one entry of a lookup response.
type Device struct {
	UDID        string `json:"udid"`
	Name        string `json:"name"`
	State       string `json:"state,omitempty"`
	Platform    string `json:"platform"`
	OS          string `json:"os,omitempty"`
	Destination string `json:"destination"`
}

// DevicesResponse is the body of a successful GET /v1/devices.
type DevicesResponse struct {
	Target  string   `json:"target"`
	Devices []Device `json:"devices"`
}

// PairsResponse is the body of a successful GET /v1/pairs.
type PairsResponse struct {
	Phones []Device `json:"phones"`
}

// ErrorResponse is the body of every failed lookup.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// FindDevices handles GET /v1/devices.
func (s *Server) FindDevices(w http.ResponseWriter, r *http.Request) {
	var params FindDevicesParams
	query := r.URL.Query()
	for name, dest := range map[string]any{
		"platform": &params.Platform,
		"major":    &params.Major,
		"minor":    &params.Minor,
		"name":     &params.Name,
		"regex":    &params.Regex,
		"all":      &params.All,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			s.writeBadParameter(w, name, err)
			return
		}
	}

	q, err := findsimulator.NewQuery(findsimulator.QueryOptions{
		Platform:       deref(params.Platform, findsimulator.DefaultPlatform),
		Major:          deref(params.Major, "latest"),
		Minor:          deref(params.Minor, "latest"),
		NameContains:   deref(params.Name, ""),
		Pattern:        deref(params.Regex, ""),
		LenientPattern: s.lenientPattern,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.Finder.Find(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}

	matches := result.Matches()
	if !deref(params.All, false) && len(matches) > 1 {
		matches = matches[:1]
	}

	resp := DevicesResponse{Target: result.Target.String(), Devices: make([]Device, 0, len(matches))}
	for _, m := range matches {
		v := m.Version
		resp.Devices = append(resp.Devices, Device{
			UDID:        m.Device.ID,
			Name:        m.Device.Name,
			State:       m.Device.State,
			Platform:    v.Platform,
			OS:          v.OS(),
			Destination: presentation.Destination(v.Platform, &v, m.Device, false),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// FindPairs handles GET /v1/pairs.
func (s *Server) FindPairs(w http.ResponseWriter, r *http.Request) {
	var params FindPairsParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "name", query, &params.Name); err != nil {
		s.writeBadParameter(w, "name", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "all", query, &params.All); err != nil {
		s.writeBadParameter(w, "all", err)
		return
	}

	phones, err := s.Finder.FindPairs(r.Context(), filter.Substring(deref(params.Name, "")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deref(params.All, false) && len(phones) > 1 {
		phones = phones[:1]
	}

	resp := PairsResponse{Phones: make([]Device, 0, len(phones))}
	for _, d := range phones {
		resp.Phones = append(resp.Phones, Device{
			UDID:        d.ID,
			Name:        d.Name,
			State:       d.State,
			Platform:    presentation.PairPlatform,
			Destination: presentation.Destination(presentation.PairPlatform, nil, d, false),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /v1/info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "findsimulator-http",
		"version":     findsimulator.Version,
		"api_version": s.apiVersion,
	})
}

// StatusCode maps an error kind to the HTTP status of its response.
// A deadline is reported as 504 whatever kind wraps it.
func StatusCode(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch domain.KindOf(err) {
	case domain.KindNoMatch:
		return http.StatusNotFound
	case domain.KindInvalidSelector, domain.KindInvalidPattern:
		return http.StatusBadRequest
	case domain.KindUnavailableInventory:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Lookup failed", "error", err)
	} else {
		s.logger.Debug("Lookup rejected", "error", err, "status", status)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: domain.KindOf(err).String()})
}

func (s *Server) writeBadParameter(w http.ResponseWriter, name string, err error) {
	s.logger.Debug("Invalid query parameter", "param", name, "error", err)
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: fmt.Sprintf("invalid query parameter %q: %v", name, err),
		Kind:  domain.KindInvalidSelector.String(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
