package gateway

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

// CommandRunner runs a shell command line and returns what it wrote to stdout.
type CommandRunner interface {
	Run(ctx context.Context, command string) (string, error)
}

type ShellRunner struct {
	Shell string
}

func NewShellRunner() *ShellRunner {
	return &ShellRunner{Shell: "/bin/sh"}
}

func (r *ShellRunner) Run(ctx context.Context, command string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), errors.Wrapf(err, "%q failed: %s", command, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
