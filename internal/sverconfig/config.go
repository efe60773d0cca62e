// Package sverconfig loads and interprets per-directory sver.toml files.
// A Profile is never validated here — that's internal/validate's job; this
// package only ever soft-misses on an absent file or table.
package sverconfig

import (
	"context"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/sverrors"
)

// DefaultProfile is the profile name used when a dependency path carries
// no ":profile" suffix and when no profile is otherwise specified.
const DefaultProfile = "default"

// ConfigFileName is the per-directory configuration file sver looks up.
const ConfigFileName = "sver.toml"

// Profile is one named set of dependency/exclude lists within a sver.toml.
type Profile struct {
	Dependencies []string `toml:"dependencies"`
	Excludes     []string `toml:"excludes"`
}

// Document is the raw decoded shape of a sver.toml file: one table per
// profile name.
type Document map[string]Profile

// CalculationTarget is a (path, profile) resolution request, parsed from a
// user-supplied "path[:profile]" string.
type CalculationTarget struct {
	Path    string
	Profile string
}

// ParseTarget splits a "path[:profile]" string into its components,
// defaulting the profile to DefaultProfile when no suffix is present.
func ParseTarget(raw string) CalculationTarget {
	path, profile := SplitPathAndProfile(raw)
	return CalculationTarget{Path: path, Profile: profile}
}

// SplitPathAndProfile splits "path:profile" on the last colon. A bare
// path with no colon yields DefaultProfile. Kept as a standalone
// function because both the resolver and the validator need it.
func SplitPathAndProfile(raw string) (path, profile string) {
	if idx := strings.LastIndexByte(raw, ':'); idx >= 0 {
		return raw[:idx], raw[idx+1:]
	}
	return raw, DefaultProfile
}

// Loader reads sver.toml files from a repository's index, caching decoded
// documents per directory for the lifetime of a single top-level
// resolution call. Configs are discarded after resolution, so callers
// should construct a fresh Loader per call rather than reusing one
// indefinitely.
type Loader struct {
	repo  *gitrepo.Repository
	cache map[string]Document
}

// NewLoader constructs a Loader bound to repo.
func NewLoader(repo *gitrepo.Repository) *Loader {
	return &Loader{repo: repo, cache: make(map[string]Document)}
}

// Profile returns the named profile for the sver.toml at dir (repository
// root-relative, "" for the repository root itself). A missing file or a
// missing table within it both yield a zero-value Profile and a nil
// error: a directory with no dependencies or excludes is simply left
// unconfigured rather than treated as an error.
func (l *Loader) Profile(ctx context.Context, dir, profileName string) (Profile, error) {
	doc, err := l.document(ctx, dir)
	if err != nil {
		return Profile{}, err
	}
	return doc[profileName], nil
}

func (l *Loader) document(ctx context.Context, dir string) (Document, error) {
	if doc, ok := l.cache[dir]; ok {
		return doc, nil
	}

	path := configPath(dir)
	entry, found, err := l.repo.Lookup(ctx, path)
	if err != nil {
		return nil, err
	}
	if !found {
		l.cache[dir] = nil
		return nil, nil
	}

	text, err := l.repo.BlobUTF8(ctx, entry.Oid)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(text)
	if err != nil {
		return nil, sverrors.NewParseError(path, err.Error())
	}

	l.cache[dir] = doc
	return doc, nil
}

// DecodeDocument parses raw sver.toml text into a Document, rejecting
// unknown keys. Exported so internal/validate can enumerate a document's
// profile names without going through a Loader's cache.
func DecodeDocument(text string) (Document, error) {
	var doc Document
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if err := rejectUnknownKeys([]byte(text)); err != nil {
		return nil, err
	}
	return doc, nil
}

func configPath(dir string) string {
	if dir == "" || dir == "." {
		return ConfigFileName
	}
	return dir + "/" + ConfigFileName
}

// rejectUnknownKeys re-decodes the document into a generic map and checks
// that every profile table contains only "dependencies"/"excludes" keys.
// go-toml/v2 has no single strict-mode flag that reaches through a
// map[string]Profile value, so the rejection is done as an explicit
// second pass (see DESIGN.md).
func rejectUnknownKeys(raw []byte) error {
	var generic map[string]map[string]interface{}
	if err := toml.Unmarshal(raw, &generic); err != nil {
		return err
	}
	for profile, table := range generic {
		for key := range table {
			if key != "dependencies" && key != "excludes" {
				return fmt.Errorf("unknown key %q in profile %q", key, profile)
			}
		}
	}
	return nil
}

// WriteInitialConfig writes a stub [default] sver.toml into the working
// tree at absDir unless a sver.toml file already exists there on disk;
// the index is not consulted. It writes to the filesystem, not the
// index, and is intentionally outside the pure resolution engine.
func (l *Loader) WriteInitialConfig(ctx context.Context, absDir string) (bool, error) {
	return writeInitialConfig(absDir)
}
