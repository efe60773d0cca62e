// Package sver is the public facade over the version calculation engine:
// Calc, List, Validate, InitConfig and Export each delegate to the
// internal packages that actually do the work.
package sver

import (
	"context"
	"fmt"

	"github.com/mitoma/sver/internal/export"
	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/hashver"
	"github.com/mitoma/sver/internal/resolve"
	"github.com/mitoma/sver/internal/sverconfig"
	"github.com/mitoma/sver/internal/validate"
)

// Version is a resolved digest for one calculation target, shaped for
// CLI/API consumption.
type Version struct {
	RepositoryRoot string
	Path           string
	Profile        string
	Version        string
}

// Calc resolves pathProfile ("path" or "path:profile") against the
// repository discovered from dir and returns its digest rendered at the
// given length ("short" or "long").
func Calc(ctx context.Context, dir, pathProfile, length string) (Version, error) {
	repo, err := gitrepo.Open(ctx, dir)
	if err != nil {
		return Version{}, err
	}

	target := sverconfig.ParseTarget(pathProfile)
	loader := sverconfig.NewLoader(repo)

	entries, err := resolve.Resolve(ctx, repo, loader, target.Path, target.Profile)
	if err != nil {
		return Version{}, err
	}

	digest, err := hashver.Hash(ctx, repo, entries)
	if err != nil {
		return Version{}, err
	}

	rendered := hashver.Long(digest)
	if length == "short" || length == "" {
		rendered = hashver.Short(digest)
	}

	return Version{
		RepositoryRoot: repo.Root(),
		Path:           target.Path,
		Profile:        target.Profile,
		Version:        rendered,
	}, nil
}

// List resolves pathProfile and returns the sorted, deduplicated set of
// real (non-phantom) contributing paths.
func List(ctx context.Context, dir, pathProfile string) ([]string, error) {
	repo, err := gitrepo.Open(ctx, dir)
	if err != nil {
		return nil, err
	}

	target := sverconfig.ParseTarget(pathProfile)
	loader := sverconfig.NewLoader(repo)

	entries, err := resolve.Resolve(ctx, repo, loader, target.Path, target.Profile)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind == resolve.Source {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}

// Validate walks the repository discovered from dir and validates every
// sver.toml in its index.
func Validate(ctx context.Context, dir string) ([]validate.Record, bool, error) {
	repo, err := gitrepo.Open(ctx, dir)
	if err != nil {
		return nil, false, err
	}
	loader := sverconfig.NewLoader(repo)
	return validate.ValidateAll(ctx, repo, loader)
}

// InitConfig writes a stub sver.toml for pathProfile's directory into the
// working tree, if one isn't already present.
func InitConfig(ctx context.Context, dir, pathProfile string) (bool, error) {
	repo, err := gitrepo.Open(ctx, dir)
	if err != nil {
		return false, err
	}
	target := sverconfig.ParseTarget(pathProfile)

	absDir := repo.Root()
	if target.Path != "" && target.Path != "." {
		absDir = fmt.Sprintf("%s/%s", repo.Root(), target.Path)
	}

	loader := sverconfig.NewLoader(repo)
	return loader.WriteInitialConfig(ctx, absDir)
}

// Export resolves pathProfile and materializes a minimal checkout of
// exactly its contributing files under destDir.
func Export(ctx context.Context, dir, pathProfile, destDir string) error {
	repo, err := gitrepo.Open(ctx, dir)
	if err != nil {
		return err
	}
	target := sverconfig.ParseTarget(pathProfile)
	loader := sverconfig.NewLoader(repo)

	entries, err := resolve.Resolve(ctx, repo, loader, target.Path, target.Profile)
	if err != nil {
		return err
	}

	return export.Export(ctx, repo, entries, destDir)
}
