package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type result struct {
	Data   map[string]any `json:"data"`
	Status domain.Status  `json:"status"`
}

func decodeResults(t *testing.T, out *bytes.Buffer) []result {
	t.Helper()
	var results []result
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var r result
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r), "line: %s", scanner.Text())
		results = append(results, r)
	}
	return results
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modulink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute_Emails(t *testing.T) {
	var out, logs bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Emails: []string{"ada@example.com", "not-an-email"},
		Out:    &out,
		LogOut: &logs,
	})
	require.NoError(t, err)

	results := decodeResults(t, &out)
	require.Len(t, results, 2)

	assert.Equal(t, domain.StatusOK, results[0].Status)
	assert.Equal(t, true, results[0].Data["sent"])
	assert.Equal(t, "Welcome, Ada!", results[0].Data["message"])

	assert.Equal(t, domain.StatusError, results[1].Status)
	assert.Equal(t, false, results[1].Data["sent"])
	assert.Equal(t, []any{"Invalid email"}, results[1].Data["reasons"])
}

func TestExecute_RequiresInput(t *testing.T) {
	err := Execute(context.Background(), RunOptions{Out: &bytes.Buffer{}, LogOut: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "no input")
}

func TestExecute_Stdin(t *testing.T) {
	in := strings.NewReader(`{"email":"grace@example.com"}

{"name":"no email"}
`)
	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Stdin:     true,
		Immutable: true,
		In:        in,
		Out:       &out,
		LogOut:    &bytes.Buffer{},
	})
	require.NoError(t, err)

	results := decodeResults(t, &out)
	require.Len(t, results, 2)
	assert.Equal(t, "Welcome, Grace!", results[0].Data["message"])
	assert.Equal(t, []any{"Missing email"}, results[1].Data["reasons"])
}

func TestExecute_StdinInvalidJSON(t *testing.T) {
	err := Execute(context.Background(), RunOptions{
		Stdin:  true,
		In:     strings.NewReader("{not json}\n"),
		Out:    &bytes.Buffer{},
		LogOut: &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "line 1")
}

func TestExecute_MetricsSummary(t *testing.T) {
	var logs bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Emails:  []string{"ada@example.com", "ada@example.com"},
		Metrics: true,
		Out:     &bytes.Buffer{},
		LogOut:  &logs,
	})
	require.NoError(t, err)

	summary := logs.String()
	assert.Contains(t, summary, ">>> metrics")
	assert.Contains(t, summary, `modulink_link_executions_total{chain="signup",link="validate_email",status="ok"} 2`)
	assert.Contains(t, summary, `modulink_link_duration_seconds{chain="signup",link="send_welcome"} count=2`)
}

func TestExecute_ConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
metrics:
  enabled: true
  namespace: signup
`)
	var logs bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		ConfigPath: path,
		LogLevel:   "warn",
		Emails:     []string{"ada@example.com"},
		Out:        &bytes.Buffer{},
		LogOut:     &logs,
	})
	require.NoError(t, err)

	assert.NotContains(t, logs.String(), `"level":"INFO"`, "flag level must win over the file")
	assert.Contains(t, logs.String(), `signup_link_executions_total{`)
}

func TestExecute_InvalidLogLevel(t *testing.T) {
	err := Execute(context.Background(), RunOptions{
		LogLevel: "loud",
		Emails:   []string{"ada@example.com"},
		Out:      &bytes.Buffer{},
		LogOut:   &bytes.Buffer{},
	})
	assert.Error(t, err)
}

func TestExecute_RedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	path := writeConfig(t, fmt.Sprintf(`
cache:
  backend: redis
  address: %s
  prefix: "test:"
  ttl: 1m
`, mr.Addr()))

	var out bytes.Buffer
	err = Execute(context.Background(), RunOptions{
		ConfigPath: path,
		Emails:     []string{"Ada@example.com", "ada@example.com"},
		Out:        &out,
		LogOut:     &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:profile:ada@example.com"))
	assert.Greater(t, mr.TTL("test:profile:ada@example.com").Seconds(), 0.0)

	results := decodeResults(t, &out)
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Data["from_cache"])
	assert.Equal(t, true, results[1].Data["from_cache"])
}

func TestExecute_RedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	path := writeConfig(t, "cache:\n  backend: redis\n  address: "+addr+"\n")
	err = Execute(context.Background(), RunOptions{
		ConfigPath: path,
		Emails:     []string{"ada@example.com"},
		Out:        &bytes.Buffer{},
		LogOut:     &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestInspect_Formats(t *testing.T) {
	var jsonOut bytes.Buffer
	require.NoError(t, Inspect(context.Background(), InspectOptions{Out: &jsonOut}))

	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &snapshot))
	assert.Equal(t, "signup", snapshot.Name)
	assert.Equal(t, []string{"validate_email", "lookup_profile", "send_welcome", "error_handler"}, snapshot.Links)
	assert.Len(t, snapshot.Connections, 3)

	var yamlOut bytes.Buffer
	require.NoError(t, Inspect(context.Background(), InspectOptions{Format: "yaml", Out: &yamlOut}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &decoded))
	assert.Equal(t, "signup", decoded["name"])

	var mermaid bytes.Buffer
	require.NoError(t, Inspect(context.Background(), InspectOptions{Format: "mermaid", Out: &mermaid}))
	assert.Contains(t, mermaid.String(), `validate_email -- "invalid email" --> error_handler`)

	err := Inspect(context.Background(), InspectOptions{Format: "toml", Out: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(fmt.Errorf("line 3: %w", context.Canceled)))
	assert.NoError(t, handleExecutionError(fmt.Errorf("input error: %w", errInterrupted)))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("abc"), cancel)

	buf := make([]byte, 3)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	close(cancel)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, errInterrupted)
}

type signaledContext struct {
	context.Context
	sig os.Signal
}

func (s signaledContext) Signal() os.Signal { return s.sig }

func TestExecute_ReportsInterruptingSignal(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := signaledContext{Context: canceled, sig: os.Interrupt}

	var logs bytes.Buffer
	err := Execute(ctx, RunOptions{
		Stdin:  true,
		In:     strings.NewReader(`{"email":"ada@example.com"}` + "\n"),
		Out:    &bytes.Buffer{},
		LogOut: &logs,
	})
	require.NoError(t, err, "an interrupted batch exits cleanly")
	assert.Contains(t, logs.String(), ">>> Interrupted by interrupt after 0 runs.")

	logs.Reset()
	err = Execute(canceled, RunOptions{
		Emails: []string{"ada@example.com"},
		Out:    &bytes.Buffer{},
		LogOut: &logs,
	})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), ">>> Interrupted after 0 runs.")
}

func TestSignalContext_CapturesSignal(t *testing.T) {
	sc := NewSignalContext(context.Background())
	defer sc.Cancel()
	assert.Nil(t, sc.Signal())

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-sc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled by SIGTERM")
	}
	assert.Equal(t, syscall.SIGTERM, sc.Signal())
}
