package modulink_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/modulink"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunAll(t *testing.T) {
	chain, err := modulink.New(modulink.WithLinks(validateEmail(), sendWelcome(), link.When(domain.HasErrors(), errorHandler())))
	require.NoError(t, err)
	require.NoError(t, chain.Connect("validate_email", "error_handler", domain.HasErrors()))

	var out bytes.Buffer
	r := &modulink.Runner{
		Input:     strings.NewReader("{\"email\":\"a@b.com\"}\n\n{}\n"),
		Output:    &out,
		Immutable: true,
	}

	runs, err := r.RunAll(context.Background(), chain)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first, second struct {
		Data   map[string]any `json:"data"`
		Status string         `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, true, first.Data["sent"])
	assert.Equal(t, "error", second.Status)
	assert.Equal(t, true, second.Data["handled"])
}

func TestRunner_InvalidJSON(t *testing.T) {
	chain, err := modulink.New(modulink.WithLinks(sendWelcome()))
	require.NoError(t, err)

	r := &modulink.Runner{Input: strings.NewReader("not json\n"), Output: &bytes.Buffer{}}
	_, err = r.RunAll(context.Background(), chain)
	assert.ErrorContains(t, err, "line 1")
}

func TestRunner_FailFast(t *testing.T) {
	boom := errors.New("boom")
	chain, err := modulink.New(modulink.WithLinks(link.New("fail", func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		return nil, boom
	})))
	require.NoError(t, err)

	var out bytes.Buffer
	r := &modulink.Runner{Input: strings.NewReader("{}\n{}\n"), Output: &out, FailFast: true}
	runs, err := r.RunAll(context.Background(), chain)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestRunner_RequiresIO(t *testing.T) {
	chain, err := modulink.New(modulink.WithLinks(sendWelcome()))
	require.NoError(t, err)

	_, err = (&modulink.Runner{}).RunAll(context.Background(), chain)
	assert.Error(t, err)
}
