// Package sqlclient drives the external Oracle SQL client as a subprocess.
package sqlclient

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ppiankov/oraspectre/internal/models"
)

// ExecFunc abstracts subprocess execution for testability
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// DefaultExec runs the command and captures combined stdout and stderr
func DefaultExec(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// probeScript is the connectivity check fed to the client
const probeScript = "SELECT 1 FROM dual;\nEXIT;\n"

// Client invokes the external SQL client binary in silent mode
type Client struct {
	binary  string
	exec    ExecFunc
	timeout time.Duration
}

// New creates a client for the given binary. A nil execFn uses DefaultExec.
// A zero timeout lets invocations block indefinitely.
func New(binary string, execFn ExecFunc, timeout time.Duration) *Client {
	if execFn == nil {
		execFn = DefaultExec
	}
	return &Client{
		binary:  binary,
		exec:    execFn,
		timeout: timeout,
	}
}

// Descriptor builds the easy-connect string the client dials:
// user/password@//host:port/service. Port is embedded verbatim.
func Descriptor(p models.ConnectionParams) string {
	return fmt.Sprintf("%s/%s@//%s:%s/%s", p.Username, p.Password, p.Host, p.Port, p.Service)
}

// RedactedDescriptor is Descriptor with the password masked, for log output
func RedactedDescriptor(p models.ConnectionParams) string {
	return fmt.Sprintf("%s/***@//%s:%s/%s", p.Username, p.Host, p.Port, p.Service)
}

// Connected applies the probe success predicate: the captured output must
// contain the substring "1". Any output with a "1" anywhere, including
// inside error codes such as ORA-12154, counts as connected.
func Connected(output string) bool {
	return strings.Contains(output, "1")
}

// Probe runs the connectivity query through the client and reports whether
// the captured output satisfies the success predicate. The raw output is
// returned for display either way.
func (c *Client) Probe(ctx context.Context, params models.ConnectionParams) (string, bool, error) {
	f, err := os.CreateTemp("", "oraspectre_probe_*.sql")
	if err != nil {
		return "", false, fmt.Errorf("failed to create probe script: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(probeScript); err != nil {
		_ = f.Close()
		return "", false, fmt.Errorf("failed to write probe script: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", false, fmt.Errorf("failed to close probe script: %w", err)
	}

	out, err := c.RunScript(ctx, params, path)
	return out, Connected(out), err
}

// RunScript invokes the client against a script file and returns the
// combined output as one blob. The exit status is reported through err
// but callers of per-check runs do not inspect it.
func (c *Client) RunScript(ctx context.Context, params models.ConnectionParams, scriptPath string) (string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.exec(runCtx, c.binary, "-S", Descriptor(params), "@"+scriptPath)
	return string(out), err
}

// Locate resolves the client binary on PATH
func Locate(binary string) (string, error) {
	return exec.LookPath(binary)
}
