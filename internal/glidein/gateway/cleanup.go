package gateway

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Cleanup only touches dir when runningCmd reports that no glideins are left.
func (g *schedulerGateway) Cleanup(ctx context.Context, runningCmd string, dir string) error {
	if dir == "" {
		return errors.New("no cleanup directory configured")
	}
	running, err := g.queryCount(ctx, runningCmd)
	if err != nil {
		return errors.WithMessage(err, "cannot tell whether glideins are still running")
	}
	if running > 0 {
		g.log.Infof("%d glidein(s) still running, leaving %s in place", running, dir)
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	var result *multierror.Error
	removed := 0
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		removed++
	}
	g.log.Infof("removed %d entries from %s", removed, dir)
	return result.ErrorOrNil()
}
