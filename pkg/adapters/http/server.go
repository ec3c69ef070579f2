// Package http exposes the dry-run planner over HTTP.
//
// POST /plan accepts a YAML module tree (see pkg/adapters/yamltree) plus
// policy knobs as query parameters and returns the wrap plan as JSON.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/shardtree/internal/logging"
	"github.com/aretw0/shardtree/pkg/adapters/yamltree"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/plan"
	"github.com/aretw0/shardtree/pkg/policy"
)

// Server handles planner requests.
type Server struct {
	logger *slog.Logger
}

// ServerOption configures the handler.
type ServerOption func(*Server, chi.Router)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server, _ chi.Router) { s.logger = logger }
}

// WithMetrics mounts /metrics serving the given registry.
func WithMetrics(reg *prometheus.Registry) ServerOption {
	return func(_ *Server, r chi.Router) {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}

// NewHandler creates the HTTP handler for the planner.
func NewHandler(opts ...ServerOption) http.Handler {
	s := &Server{logger: logging.NewNop()}
	r := chi.NewRouter()
	for _, opt := range opts {
		opt(s, r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/plan", s.handlePlan)

	return r
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	pol, err := policyFromQuery(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	root, err := yamltree.Load(r.Body)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	p, err := plan.Build(r.Context(), root, pol)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.logger.Info("plan computed",
		"boundaries", len(p.Entries),
		"wrapped_params", p.WrappedParams,
		"total_params", p.TotalParams,
	)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	s.logger.Warn("plan request rejected", "error", err, "status", code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func policyFromQuery(r *http.Request) (*policy.SizePolicy, error) {
	minParams := int64(policy.DefaultMinParams)
	if raw := r.URL.Query().Get("min_params"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		minParams = n
	}
	var opts []policy.Option
	if s := kindSetParam(r, "force_leaf"); s != nil {
		opts = append(opts, policy.WithForceLeaf(policy.DefaultForceLeaf.Union(s)))
	}
	if s := kindSetParam(r, "exclude"); s != nil {
		opts = append(opts, policy.WithExclude(policy.DefaultExclude.Union(s)))
	}
	return policy.Size(minParams, opts...), nil
}

func kindSetParam(r *http.Request, key string) domain.KindSet {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	set := domain.KindSet{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			set[domain.Kind(k)] = struct{}{}
		}
	}
	return set
}
