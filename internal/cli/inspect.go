package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/modulink/internal/presentation/graph"
	"github.com/aretw0/modulink/pkg/config"
	"gopkg.in/yaml.v3"
)

// InspectOptions configuration for printing the chain structure.
type InspectOptions struct {
	ConfigPath string
	Format     string // json, yaml or mermaid
	Out        io.Writer
}

// Inspect prints the structure of the signup chain without running it.
// The cache backend is never contacted.
func Inspect(ctx context.Context, opts InspectOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := loadConfig(opts.ConfigPath, "")
	if err != nil {
		return err
	}
	cfg.Cache.Backend = config.BackendMemory

	c, err := createComponents(ctx, cfg, io.Discard)
	if err != nil {
		return err
	}
	chain, err := createChain(cfg, c)
	if err != nil {
		return err
	}
	snapshot := chain.Inspect()

	switch opts.Format {
	case "", "json":
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	case "yaml":
		enc := yaml.NewEncoder(opts.Out)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return err
		}
		return enc.Close()
	case "mermaid":
		_, err := io.WriteString(opts.Out, graph.GenerateMermaid(snapshot, nil))
		return err
	default:
		return fmt.Errorf("unsupported format %q (use json, yaml or mermaid)", opts.Format)
	}
}
