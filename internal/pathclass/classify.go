// Package pathclass decides what a repository-relative path refers to:
// a tracked file, a directory of tracked files, a symlink (transparently
// resolved), a submodule gitlink, or nothing at all.
package pathclass

import (
	"context"
	"strings"

	"github.com/mitoma/sver/internal/fsutil"
	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/sverrors"
)

// Kind tags the variant a Classification holds.
type Kind int

const (
	NotFound Kind = iota
	KindFile
	KindDirectory
	KindSymlink
	KindGitlink
)

// Classification is the tagged-union result of Classify.
type Classification struct {
	Kind Kind
	// Path is the path actually classified: for a symlink, this is the
	// symlink's own path (not the path it resolves to).
	Path string
	// Entry is populated for KindFile, KindSymlink and KindGitlink.
	Entry gitrepo.Entry
	// ResolvedPath is populated for KindSymlink: the repository-relative
	// path the link target resolves to, already clamped to the root.
	ResolvedPath string
}

// Classify decides what path refers to. A symlink is resolved relative to
// its own parent directory; Classify reports KindSymlink with
// ResolvedPath populated but does not itself follow the link. The caller
// (the resolver) is responsible for re-classifying ResolvedPath, which is
// what lets a symlink-to-directory participate in resolution the same
// way a symlink-to-file does.
func Classify(ctx context.Context, repo *gitrepo.Repository, path string) (Classification, error) {
	path = fsutil.CleanRel(path)

	entry, found, err := repo.Lookup(ctx, path)
	if err != nil {
		return Classification{}, err
	}
	if found {
		switch entry.Kind {
		case gitrepo.Gitlink:
			return Classification{Kind: KindGitlink, Path: path, Entry: entry}, nil
		case gitrepo.Symlink:
			resolved, err := resolveSymlink(ctx, repo, path, entry)
			if err != nil {
				return Classification{}, err
			}
			return Classification{Kind: KindSymlink, Path: path, Entry: entry, ResolvedPath: resolved}, nil
		default:
			return Classification{Kind: KindFile, Path: path, Entry: entry}, nil
		}
	}

	if isDirectory(ctx, repo, path) {
		return Classification{Kind: KindDirectory, Path: path}, nil
	}

	return Classification{Kind: NotFound, Path: path}, sverrors.NewPathNotFound(path)
}

func resolveSymlink(ctx context.Context, repo *gitrepo.Repository, path string, entry gitrepo.Entry) (string, error) {
	target, err := repo.BlobUTF8(ctx, entry.Oid)
	if err != nil {
		return "", err
	}
	target = strings.TrimRight(target, "\n")

	parent := parentDir(path)
	resolved := fsutil.JoinRel(parent, target)
	if fsutil.EscapesRoot(resolved) {
		return "", sverrors.NewBadSymlink(path)
	}
	return resolved, nil
}

func parentDir(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return ""
}

// isDirectory reports whether any entry has path as a proper prefix.
func isDirectory(ctx context.Context, repo *gitrepo.Repository, path string) bool {
	entries, err := ExpandDirectory(ctx, repo, path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// ExpandDirectory returns every index entry whose path lies under dir.
func ExpandDirectory(ctx context.Context, repo *gitrepo.Repository, dir string) ([]gitrepo.Entry, error) {
	all, err := repo.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var out []gitrepo.Entry
	for _, e := range all {
		if dir == "" || strings.HasPrefix(e.Path, dir+"/") {
			out = append(out, e)
		}
	}
	return out, nil
}
