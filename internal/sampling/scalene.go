// Package sampling shells out to an external sampling profiler and folds
// its per-line JSON output into aggregate metrics. The external tool is
// best-effort: every failure mode is reported inside the returned payload
// so a missing or broken profiler never fails a profiling run.
package sampling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// stderrLimit caps how much of the tool's stderr is embedded in an error
// payload.
const stderrLimit = 500

// Profiler invokes an external sampling profiler as a subprocess.
type Profiler struct {
	// Command is the profiler executable name or path.
	Command string
	// Args are extra arguments inserted before the script path.
	Args []string
	// Timeout bounds the subprocess wall time.
	Timeout time.Duration

	logger *slog.Logger
}

// NewProfiler builds a Profiler for the given command and timeout.
func NewProfiler(command string, args []string, timeout time.Duration, logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Profiler{Command: command, Args: args, Timeout: timeout, logger: logger}
}

// Profile runs the sampling profiler against scriptPath and returns the
// decoded JSON payload. Failures are encoded in the payload under an
// "error" key, never returned as an error.
func (p *Profiler) Profile(ctx context.Context, scriptPath, workDir string, mockInputs []string) map[string]any {
	outFile, err := os.CreateTemp("", "omniprof-sampling-*.json")
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("create output file: %v", err)}
	}

	outPath := outFile.Name()
	outFile.Close()

	defer os.Remove(outPath)

	runCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Timeout)

		defer cancel()
	}

	args := append([]string{"--cli", "--json", "--outfile", outPath}, p.Args...)
	args = append(args, scriptPath)

	cmd := exec.CommandContext(runCtx, p.Command, args...)
	cmd.Dir = workDir

	var stderr bytes.Buffer

	cmd.Stderr = &stderr
	cmd.Stdin = strings.NewReader(strings.Join(mockInputs, "\n") + "\n")

	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		p.logger.Warn("sampling profiler timed out", "command", p.Command, "timeout", p.Timeout)

		return map[string]any{"error": fmt.Sprintf("%s timed out after %s", filepath.Base(p.Command), p.Timeout)}
	}

	payload, readErr := readPayload(outPath)
	if readErr != nil {
		result := map[string]any{
			"error":  readErr.Error(),
			"stderr": truncate(stderr.String(), stderrLimit),
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result["returncode"] = exitErr.ExitCode()
		} else if runErr != nil {
			result["error"] = runErr.Error()
		}

		return result
	}

	return payload
}

func readPayload(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiler output: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("profiler produced no output")
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode profiler output: %w", err)
	}

	return payload, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}
