// Package resolve implements the resolver: the heart of sver. It expands
// a (path, profile) request into the closed, deduplicated set of source
// entries that contribute to that path's version, following configured
// dependencies transitively and safely through cycles.
package resolve

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mitoma/sver/internal/fsutil"
	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/pathclass"
	"github.com/mitoma/sver/internal/sverconfig"
	"github.com/mitoma/sver/internal/sverrors"
)

// EntryKind distinguishes a real source entry from a synthetic phantom
// directory marker.
type EntryKind int

const (
	Source EntryKind = iota
	Phantom
)

// Entry is one contributing entry in a resolution result: either a real
// git index entry or a phantom directory marker inserted along a
// symlink's resolved target path.
type Entry struct {
	Path    string
	Mode    string
	Oid     string
	Target  string // populated when Kind == Source and the underlying entry is a symlink
	Kind    EntryKind
	GitKind gitrepo.Kind // meaningful only when Kind == Source
}

type request struct {
	path    string
	profile string
}

// Resolve expands (target, profile) into a path-sorted, deduplicated list
// of contributing entries.
func Resolve(ctx context.Context, repo *gitrepo.Repository, loader *sverconfig.Loader, target, profile string) ([]Entry, error) {
	target = fsutil.CleanRel(target)
	if target == "." {
		target = ""
	}

	visited := make(map[request]bool)
	accum := make(map[string]Entry)

	work := []request{{path: target, profile: profile}}

	for len(work) > 0 {
		req := work[len(work)-1]
		work = work[:len(work)-1]

		if visited[req] {
			continue
		}
		visited[req] = true
		log.Debug().Str("path", req.path).Str("profile", req.profile).Msg("visiting")

		cls, err := pathclass.Classify(ctx, repo, req.path)
		if err != nil {
			return nil, err
		}

		switch cls.Kind {
		case pathclass.KindFile:
			addSourceEntry(accum, cls.Entry)

		case pathclass.KindSymlink:
			linkTarget, err := repo.BlobUTF8(ctx, cls.Entry.Oid)
			if err != nil {
				return nil, err
			}
			addSymlinkEntry(accum, cls.Entry, strings.TrimRight(linkTarget, "\n"))
			for _, dir := range intermediateDirs(cls.ResolvedPath) {
				addPhantom(accum, dir)
			}
			work = append(work, request{path: cls.ResolvedPath, profile: sverconfig.DefaultProfile})

		case pathclass.KindGitlink:
			addSourceEntry(accum, cls.Entry)

		case pathclass.KindDirectory:
			children, err := pathclass.ExpandDirectory(ctx, repo, req.path)
			if err != nil {
				return nil, err
			}

			prof, err := loader.Profile(ctx, req.path, req.profile)
			if err != nil {
				return nil, err
			}

			for _, dep := range prof.Dependencies {
				depPath, depProfile := sverconfig.SplitPathAndProfile(dep)
				depPath = fsutil.JoinRel("", depPath)
				log.Debug().Str("from", req.path).Str("dependency", depPath).Str("profile", depProfile).Msg("pushing dependency")
				work = append(work, request{path: depPath, profile: depProfile})
			}

			survivors := applyExcludes(req.path, children, prof.Excludes)
			for _, e := range survivors {
				if e.Kind == gitrepo.Symlink {
					linkTarget, err := repo.BlobUTF8(ctx, e.Oid)
					if err != nil {
						return nil, err
					}
					addSymlinkEntry(accum, e, strings.TrimRight(linkTarget, "\n"))
					continue
				}
				addSourceEntry(accum, e)
			}

		case pathclass.NotFound:
			return nil, sverrors.NewPathNotFound(req.path)
		}
	}

	result := make([]Entry, 0, len(accum))
	for _, e := range accum {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

func addSourceEntry(accum map[string]Entry, e gitrepo.Entry) {
	accum[e.Path] = Entry{Path: e.Path, Mode: e.Mode, Oid: e.Oid, Kind: Source, GitKind: e.Kind}
}

func addSymlinkEntry(accum map[string]Entry, e gitrepo.Entry, target string) {
	accum[e.Path] = Entry{Path: e.Path, Mode: e.Mode, Oid: e.Oid, Target: target, Kind: Source, GitKind: e.Kind}
}

func addPhantom(accum map[string]Entry, dir string) {
	if _, exists := accum[dir]; exists {
		return
	}
	accum[dir] = Entry{Path: dir, Kind: Phantom}
}

// intermediateDirs returns every non-empty prefix directory component of
// a repository-relative path, e.g. "a/b/c.txt" -> ["a", "a/b"].
func intermediateDirs(path string) []string {
	parts := strings.Split(path, "/")
	if len(parts) <= 1 {
		return nil
	}
	var dirs []string
	for i := 1; i < len(parts); i++ {
		dirs = append(dirs, strings.Join(parts[:i], "/"))
	}
	return dirs
}

// applyExcludes removes, from children (all of which lie under dir),
// every entry matched by one of excludes (interpreted relative to dir).
// Excludes are directory-local: they never reach into entries contributed
// by a dependency, since this function only ever sees a directory's own
// enumerated children.
func applyExcludes(dir string, children []gitrepo.Entry, excludes []string) []gitrepo.Entry {
	if len(excludes) == 0 {
		return children
	}
	prefixes := make([]string, len(excludes))
	for i, ex := range excludes {
		prefixes[i] = fsutil.JoinRel(dir, ex)
	}

	var out []gitrepo.Entry
	for _, c := range children {
		excluded := false
		for _, p := range prefixes {
			if c.Path == p || strings.HasPrefix(c.Path, p+"/") {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, c)
		}
	}
	return out
}
