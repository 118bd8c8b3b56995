package shadercross

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gogpu/shaderpack/backend"
)

// Command is one external tool invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin []byte
	// Dir is the working directory, the call's temporary directory.
	Dir string
}

// Runner executes commands. Tests replace it with a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout []byte, err error)
}

// ToolError reports a tool that ran and failed.
type ToolError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("shadercross: failed to run %v: %v", e.Args, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %v", backend.ErrNotAvailable, c.Name, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return nil, &ToolError{Args: cmd.Args, Stderr: stderr.String(), Err: err}
	}
	return out, nil
}
