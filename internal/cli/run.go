package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/modulink"
	"github.com/aretw0/modulink/pkg/config"
	"github.com/aretw0/modulink/pkg/domain"
)

// RunOptions configuration for the signup chain execution.
type RunOptions struct {
	ConfigPath string
	LogLevel   string // overrides the configured level when set

	// Emails run one signup per address. Ignored when Stdin is set.
	Emails    []string
	Stdin     bool // read NDJSON contexts from In instead
	Immutable bool
	Metrics   bool // enable metrics and print a summary at the end
	FailFast  bool

	In     io.Reader
	Out    io.Writer
	LogOut io.Writer
}

func (o *RunOptions) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.LogOut == nil {
		o.LogOut = os.Stderr
	}
}

// loadConfig resolves the file configuration and applies flag overrides.
func loadConfig(path, logLevel string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, cfg.Validate()
}

// Execute runs the signup chain once per input and writes every terminal
// context as a JSON line.
func Execute(ctx context.Context, opts RunOptions) error {
	opts.defaults()

	cfg, err := loadConfig(opts.ConfigPath, opts.LogLevel)
	if err != nil {
		return err
	}
	if opts.Metrics {
		cfg.Metrics.Enabled = true
	}
	if opts.Immutable {
		cfg.Chain.Immutable = true
	}

	c, err := createComponents(ctx, cfg, opts.LogOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.close(); cerr != nil {
			c.logger.Warn("failed to close cache", "err", cerr)
		}
	}()

	chain, err := createChain(cfg, c)
	if err != nil {
		return err
	}

	if opts.Stdin {
		runner := &modulink.Runner{
			Input:     NewInterruptibleReader(opts.In, ctx.Done()),
			Output:    opts.Out,
			Immutable: cfg.Chain.Immutable,
			FailFast:  opts.FailFast,
		}
		runs, err := runner.RunAll(ctx, chain)
		c.logger.Info("stdin runs finished", "runs", runs)
		if isInterrupted(err) || ctx.Err() != nil {
			reportInterruption(ctx, opts.LogOut, runs)
		}
		if err := handleExecutionError(err); err != nil {
			return err
		}
	} else {
		if len(opts.Emails) == 0 {
			return fmt.Errorf("no input: pass --email or --stdin")
		}
		if err := runEmails(ctx, chain, cfg.Chain.Immutable, opts); err != nil {
			return err
		}
	}

	if c.registry != nil {
		families, err := c.registry.Gather()
		if err != nil {
			return fmt.Errorf("failed to gather metrics: %w", err)
		}
		writeMetricsSummary(opts.LogOut, families)
	}
	return nil
}

func runEmails(ctx context.Context, chain *modulink.Chain, immutable bool, opts RunOptions) error {
	enc := json.NewEncoder(opts.Out)
	for i, email := range opts.Emails {
		if ctx.Err() != nil {
			reportInterruption(ctx, opts.LogOut, i)
			return nil
		}
		data := map[string]any{"email": email}
		initial := domain.NewContext(data)
		if immutable {
			initial = domain.NewImmutable(data)
		}

		out, err := chain.Run(ctx, initial)
		if err != nil {
			return err
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		if opts.FailFast && out.Exception() != nil {
			return handleExecutionError(out.Exception())
		}
	}
	return nil
}
