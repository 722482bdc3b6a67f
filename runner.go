package modulink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/modulink/pkg/domain"
)

// Runner feeds newline-delimited JSON objects through a chain and writes
// each terminal context as one JSON line. It lets a chain sit behind a pipe
// (CLI, batch job) without any protocol of its own.
type Runner struct {
	Input  io.Reader
	Output io.Writer

	// Immutable runs every input on an immutable context.
	Immutable bool
	// FailFast stops at the first input whose run ends with an exception.
	FailFast bool
}

// RunAll executes chain once per input line. Blank lines are skipped.
// It returns the number of runs and the first I/O or decoding error.
func (r *Runner) RunAll(ctx context.Context, chain *Chain) (int, error) {
	if r.Input == nil {
		return 0, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return 0, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	scanner := bufio.NewScanner(r.Input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(r.Output)

	runs := 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return runs, fmt.Errorf("line %d: invalid JSON object: %w", line, err)
		}

		initial := domain.NewContext(payload)
		if r.Immutable {
			initial = domain.NewImmutable(payload)
		}

		out, err := chain.Run(ctx, initial)
		if err != nil {
			return runs, fmt.Errorf("line %d: %w", line, err)
		}
		runs++

		if err := enc.Encode(out); err != nil {
			return runs, fmt.Errorf("line %d: failed to write result: %w", line, err)
		}
		if r.FailFast && out.Exception() != nil {
			return runs, fmt.Errorf("line %d: %w", line, out.Exception())
		}
	}
	if err := scanner.Err(); err != nil {
		return runs, fmt.Errorf("input error: %w", err)
	}
	return runs, nil
}
