package propquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/propquery/internal/db"
	dbValkey "github.com/kailas-cloud/propquery/internal/db/valkey"
	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
	propertyrepo "github.com/kailas-cloud/propquery/internal/repository/property"
	compileuc "github.com/kailas-cloud/propquery/internal/usecase/compile"
	healthuc "github.com/kailas-cloud/propquery/internal/usecase/health"
	propertyuc "github.com/kailas-cloud/propquery/internal/usecase/property"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "propquery:"
)

// Internal interfaces, swapped out in tests.
type compileUseCase interface {
	Compile(ctx context.Context, req compileuc.Request) (compileuc.Result, error)
}

type propertyUseCase interface {
	Register(ctx context.Context, name string, id int, typ string) (domprop.Descriptor, error)
	Get(ctx context.Context, name string) (domprop.Descriptor, error)
	List(ctx context.Context) (domprop.Catalog, error)
	Delete(ctx context.Context, name string) error
}

// Client is the propquery SDK entry point.
type Client struct {
	store     db.Store
	compiler  compileUseCase
	props     propertyUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a propquery Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := newClientConfig(opts)

	if len(cfg.addrs) == 0 {
		return nil, errors.New("propquery: database address required (use WithValkey or WithCluster)")
	}

	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:      cfg.addrs,
		Username:   cfg.username,
		Password:   cfg.password,
		Standalone: cfg.standalone,
	})
	if err != nil {
		return nil, fmt.Errorf("propquery: create valkey store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("propquery: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func newClientConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.keyPrefix == "" {
		cfg.keyPrefix = defaultKeyPrefix
	}
	if cfg.suffix == "" {
		cfg.suffix = domprop.DefaultSuffix
	}
	return cfg
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	repo := propertyrepo.New(store, cfg.keyPrefix)
	compiler := compileuc.New(repo)
	if cfg.fallback {
		compiler.WithFallback(domprop.Convention{Suffix: cfg.suffix})
	}

	return &Client{
		store:     store,
		compiler:  compiler,
		props:     propertyuc.New(repo),
		healthSvc: healthuc.New(store, repo),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Properties returns the property catalog service.
func (c *Client) Properties() *PropertyService {
	return &PropertyService{svc: c.props, obs: c.obs}
}

// Query starts a new boolean query.
func (c *Client) Query() *QueryBuilder {
	return &QueryBuilder{client: c}
}
