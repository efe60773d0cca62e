//go:build !linux

package inspect

import (
	"context"

	"github.com/mitoma/sver/internal/sverrors"
)

// Run is unavailable on non-Linux platforms: inotify is Linux-only.
func Run(ctx context.Context, root string, command string, args []string) ([]string, error) {
	return nil, sverrors.ErrUnsupportedPlatform
}
