package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/modulink"
	"github.com/aretw0/modulink/internal/demo"
	"github.com/aretw0/modulink/internal/logging"
	"github.com/aretw0/modulink/pkg/adapters/memory"
	"github.com/aretw0/modulink/pkg/adapters/redis"
	"github.com/aretw0/modulink/pkg/config"
	"github.com/aretw0/modulink/pkg/middleware"
	"github.com/aretw0/modulink/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// components are the collaborators a CLI command wires into the chain.
type components struct {
	logger   *slog.Logger
	registry *prometheus.Registry // nil unless metrics are enabled
	metrics  *middleware.Metrics
	cache    ports.Cache
	close    func() error
}

// createComponents builds logger, metrics and cache from cfg.
func createComponents(ctx context.Context, cfg config.Config, logOut io.Writer) (*components, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	c := &components{
		logger: logging.NewWithFormat(logOut, level, cfg.Log.Format),
		close:  func() error { return nil },
	}

	if cfg.Metrics.Enabled {
		c.registry = prometheus.NewRegistry()
		c.metrics, err = middleware.Prometheus(c.registry, cfg.Metrics.Namespace)
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rc := redis.New(cfg.Cache.Address, cfg.Cache.Password, cfg.Cache.DB, redis.WithPrefix(cfg.Cache.Prefix))
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.Address, err)
		}
		c.cache = rc
		c.close = rc.Close
	default:
		c.cache = memory.NewCache()
	}

	c.logger.Debug("components ready",
		"cache", cfg.Cache.Backend,
		"metrics", cfg.Metrics.Enabled,
	)
	return c, nil
}

// createChain initializes the signup chain with standard CLI conventions.
func createChain(cfg config.Config, c *components) (*modulink.Chain, error) {
	chain, err := demo.Signup(demo.Options{
		Logger:   c.logger,
		Cache:    c.cache,
		CacheTTL: cfg.Cache.TTL,
		Metrics:  c.metrics,
		MaxSteps: cfg.Chain.MaxSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing chain: %w", err)
	}
	return chain, nil
}
