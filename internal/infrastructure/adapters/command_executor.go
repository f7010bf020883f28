package adapters

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
)

// maxStderr bounds how much of a failed command's stderr ends up in the error
const maxStderr = 512

// RealCommandExecutor runs host tools (nmcli, netplan, dpkg, rpm, systemctl).
// Commands run under the C locale so their output can be parsed.
type RealCommandExecutor struct {
	env []string
}

// NewRealCommandExecutor creates a new RealCommandExecutor
func NewRealCommandExecutor() interfaces.CommandExecutor {
	return &RealCommandExecutor{env: commandEnv(os.Environ())}
}

// commandEnv returns base with any locale overrides replaced by LC_ALL=C
func commandEnv(base []string) []string {
	env := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if strings.HasPrefix(kv, "LC_") || strings.HasPrefix(kv, "LANG=") || strings.HasPrefix(kv, "LANGUAGE=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "LC_ALL=C")
}

// Execute runs a command and returns its stdout
func (e *RealCommandExecutor) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = e.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		line := commandLine(command, args)
		if stderrors.Is(err, exec.ErrNotFound) {
			return nil, errors.NewUnavailableError(fmt.Sprintf("command not installed: %s", command), err)
		}
		return nil, errors.NewSystemError(
			fmt.Sprintf("command failed: %s", line),
			fmt.Errorf("%w, stderr: %s", err, truncate(strings.TrimSpace(stderr.String()), maxStderr)),
		)
	}

	return stdout.Bytes(), nil
}

// ExecuteWithTimeout runs a command with a deadline. A non-positive timeout
// leaves ctx as the only bound.
func (e *RealCommandExecutor) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error) {
	if timeout <= 0 {
		return e.Execute(ctx, command, args...)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := e.Execute(ctx, command, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewTimeoutError(
				fmt.Sprintf("command timed out after %v: %s", timeout, commandLine(command, args)),
			)
		}
		return nil, err
	}

	return output, nil
}

func commandLine(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
