package compile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/propquery/internal/domain"
	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
	"github.com/kailas-cloud/propquery/internal/domain/search/filter"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
	"github.com/kailas-cloud/propquery/internal/logger"
	"github.com/kailas-cloud/propquery/internal/metrics"
)

// Service compiles filter clauses into backend queries.
type Service struct {
	catalog  CatalogLoader
	fallback domprop.Resolver
	newID    func() string
}

// New creates a compile service. Names missing from the catalog fail to resolve
// unless a fallback resolver is set with WithFallback.
func New(catalog CatalogLoader) *Service {
	return &Service{catalog: catalog, newID: func() string { return uuid.NewString() }}
}

// WithFallback resolves names missing from the catalog with r.
func (s *Service) WithFallback(r domprop.Resolver) *Service {
	s.fallback = r
	return s
}

// Compile builds one filter per clause, merges them into a boolean query and encodes it.
func (s *Service) Compile(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	resolver, err := s.resolver(ctx)
	if err != nil {
		return Result{}, err
	}

	groups := make(map[query.Occur][]filter.Filter, 3)
	for i, c := range req.Clauses {
		occur := c.Occur
		if occur == "" {
			occur = query.Must
		}
		if occur != query.Must && occur != query.Should && occur != query.MustNot {
			metrics.FiltersCompiledTotal.WithLabelValues(string(c.Kind), outcomeLabel(domain.ErrInvalidArgument)).Inc()
			return Result{}, fmt.Errorf("clause %d: %w", i, domain.InvalidArgument("unsupported occurrence %q", occur))
		}
		f, err := buildFilter(c, resolver)
		if err != nil {
			metrics.FiltersCompiledTotal.WithLabelValues(string(c.Kind), outcomeLabel(err)).Inc()
			return Result{}, fmt.Errorf("clause %d: %w", i, err)
		}
		groups[occur] = append(groups[occur], f)
	}

	expr, err := filter.NewExpression(groups[query.Must], groups[query.Should], groups[query.MustNot])
	if err != nil {
		return Result{}, err
	}
	q, err := expr.Query()
	if err != nil {
		metrics.FiltersCompiledTotal.WithLabelValues("expression", outcomeLabel(err)).Inc()
		return Result{}, err
	}
	for _, c := range req.Clauses {
		metrics.FiltersCompiledTotal.WithLabelValues(string(c.Kind), outcomeLabel(nil)).Inc()
	}

	js, err := query.Encode(q)
	if err != nil {
		return Result{}, err
	}

	id := s.newID()
	metrics.QueryCompileDuration.Observe(time.Since(start).Seconds())
	log.Debug("query compiled",
		zap.String("query_id", id),
		zap.Int("clauses", len(req.Clauses)),
		zap.Int("bytes", len(js)),
	)

	return Result{ID: id, Query: q, JSON: js}, nil
}

func (s *Service) resolver(ctx context.Context) (domprop.Resolver, error) {
	var catalog domprop.Catalog
	if s.catalog != nil {
		c, err := s.catalog.Load(ctx)
		if err != nil {
			metrics.CatalogLoadErrorsTotal.Inc()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		catalog = c
	}
	if s.fallback == nil {
		return catalog, nil
	}
	return domprop.Chain(catalog, s.fallback), nil
}

func buildFilter(c Clause, r domprop.Resolver) (filter.Filter, error) {
	opts := []filter.Option{filter.WithResolver(r)}
	if c.Boost != nil {
		opts = append(opts, filter.WithBoost(*c.Boost))
	}
	ref := domprop.Named(c.Property)

	switch c.Kind {
	case KindRange:
		return filter.NewPropertyRange(ref, c.Range, opts...)
	case KindValue:
		return filter.NewPropertyValue(ref, c.Value, opts...)
	case KindExists:
		return filter.NewHasProperty(ref, opts...)
	default:
		return nil, domain.InvalidArgument("unknown filter kind %q", c.Kind)
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrUnresolvedProperty):
		return "unresolved"
	default:
		return "error"
	}
}
