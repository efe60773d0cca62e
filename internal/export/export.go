// Package export materializes a resolved entry set into a fresh directory
// on disk: a minimal, buildable checkout of exactly what contributes to a
// version.
package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/resolve"
)

// Export writes every source entry in entries to destDir, preserving
// their repository-relative layout. Phantom directory markers are
// skipped — they exist only to perturb the hash, not to be materialized.
// Gitlink entries are recreated as an empty directory: cloning an
// arbitrary external submodule URL is out of scope for a deterministic,
// network-free core.
func Export(ctx context.Context, repo *gitrepo.Repository, entries []resolve.Entry, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, e := range entries {
		if e.Kind != resolve.Source {
			continue
		}

		dest := filepath.Join(destDir, e.Path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}

		switch e.GitKind {
		case gitrepo.Gitlink:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case gitrepo.Symlink:
			if err := os.Symlink(e.Target, dest); err != nil {
				return err
			}
		default:
			content, err := repo.Blob(ctx, e.Oid)
			if err != nil {
				return err
			}
			mode := os.FileMode(0o644)
			if e.GitKind == gitrepo.Executable {
				mode = 0o755
			}
			if err := os.WriteFile(dest, content, mode); err != nil {
				return err
			}
		}
	}

	return nil
}
