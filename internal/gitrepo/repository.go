// Package gitrepo adapts a git repository discovered on disk into the
// flat, ordered entry view the rest of the engine operates on. All reads
// go through the git binary itself (ls-files, ls-tree, cat-file) rather
// than a Go implementation of the git object format, matching how every
// git interaction in the corpus this repo was grounded on is done.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mitoma/sver/internal/sverrors"
)

// Kind classifies an index entry by its git file mode.
type Kind int

const (
	File Kind = iota
	Executable
	Symlink
	Gitlink
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Executable:
		return "executable"
	case Symlink:
		return "symlink"
	case Gitlink:
		return "gitlink"
	default:
		return "unknown"
	}
}

// Entry is one flattened index/tree entry: a repository-relative path, its
// git file mode, and the oid of the object it names.
type Entry struct {
	Path string
	Mode string // git mode, e.g. "100644"
	Oid  string
	Kind Kind
}

// Repository is a handle onto a discovered git repository root. It is
// cheap to construct and carries no long-lived resources beyond the root
// path, so a fresh one is created per resolution call.
type Repository struct {
	root string
}

// Open discovers the repository root from any path inside a working tree
// (or its ancestors) and returns a handle scoped to it.
func Open(ctx context.Context, path string) (*Repository, error) {
	out, err := runGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sverrors.ErrRepoNotFound, path)
	}
	return &Repository{root: strings.TrimSpace(out)}, nil
}

// Root returns the absolute filesystem path of the repository root.
func (r *Repository) Root() string {
	return r.root
}

// Entries returns every tracked entry, sourced from the index when it is
// non-empty, falling back to the HEAD tree when the index is empty but
// HEAD resolves. This choice is deterministic per repository state, as
// required: a repository's entry set never depends on which of the two
// git happens to prefer at call time, only on whether it has a non-empty
// index.
func (r *Repository) Entries(ctx context.Context) ([]Entry, error) {
	entries, err := r.indexEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		sortEntries(entries)
		return entries, nil
	}

	entries, err = r.treeEntries(ctx, "HEAD")
	if err != nil {
		// No index and no HEAD: a brand new, empty repository.
		return nil, nil
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}

func (r *Repository) indexEntries(ctx context.Context) ([]Entry, error) {
	out, err := runGitBytes(ctx, r.root, "ls-files", "-s", "-z")
	if err != nil {
		return nil, sverrors.NewGitError(fmt.Sprintf("ls-files: %v", err))
	}
	return parseLsFiles(out)
}

func (r *Repository) treeEntries(ctx context.Context, rev string) ([]Entry, error) {
	out, err := runGitBytes(ctx, r.root, "ls-tree", "-r", "-z", rev)
	if err != nil {
		return nil, err
	}
	return parseLsTree(out)
}

// parseLsFiles parses the NUL-delimited output of `git ls-files -s -z`:
// each record is "<mode> <oid> <stage>\t<path>".
func parseLsFiles(out []byte) ([]Entry, error) {
	var entries []Entry
	for _, rec := range splitNul(out) {
		if rec == "" {
			continue
		}
		tab := strings.IndexByte(rec, '\t')
		if tab < 0 {
			return nil, sverrors.NewGitError("malformed ls-files record: " + rec)
		}
		fields := strings.Fields(rec[:tab])
		if len(fields) < 2 {
			return nil, sverrors.NewGitError("malformed ls-files record: " + rec)
		}
		mode, oid := fields[0], fields[1]
		path := rec[tab+1:]
		entries = append(entries, Entry{
			Path: path,
			Mode: mode,
			Oid:  oid,
			Kind: kindForMode(mode),
		})
	}
	return entries, nil
}

// parseLsTree parses the NUL-delimited output of `git ls-tree -r -z HEAD`:
// each record is "<mode> <type> <oid>\t<path>".
func parseLsTree(out []byte) ([]Entry, error) {
	var entries []Entry
	for _, rec := range splitNul(out) {
		if rec == "" {
			continue
		}
		tab := strings.IndexByte(rec, '\t')
		if tab < 0 {
			return nil, sverrors.NewGitError("malformed ls-tree record: " + rec)
		}
		fields := strings.Fields(rec[:tab])
		if len(fields) < 3 {
			return nil, sverrors.NewGitError("malformed ls-tree record: " + rec)
		}
		mode, oid := fields[0], fields[2]
		path := rec[tab+1:]
		entries = append(entries, Entry{
			Path: path,
			Mode: mode,
			Oid:  oid,
			Kind: kindForMode(mode),
		})
	}
	return entries, nil
}

func splitNul(out []byte) []string {
	trimmed := bytes.TrimRight(out, "\x00")
	if len(trimmed) == 0 {
		return nil
	}
	parts := bytes.Split(trimmed, []byte{0})
	result := make([]string, len(parts))
	for i, p := range parts {
		result[i] = string(p)
	}
	return result
}

func kindForMode(mode string) Kind {
	switch mode {
	case "100755":
		return Executable
	case "120000":
		return Symlink
	case "160000":
		return Gitlink
	default:
		return File
	}
}

// Blob returns the raw bytes of the object named by oid. For a gitlink
// entry there is no blob to read; callers should use the entry's Oid
// directly (the recorded submodule commit) instead of calling Blob.
func (r *Repository) Blob(ctx context.Context, oid string) ([]byte, error) {
	out, err := runGitBytes(ctx, r.root, "cat-file", "-p", oid)
	if err != nil {
		return nil, sverrors.NewGitError(fmt.Sprintf("cat-file %s: %v", oid, err))
	}
	return out, nil
}

// BlobUTF8 reads a blob and validates it as UTF-8 text.
func (r *Repository) BlobUTF8(ctx context.Context, oid string) (string, error) {
	b, err := r.Blob(ctx, oid)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: oid %s", sverrors.ErrBadEncoding, oid)
	}
	return string(b), nil
}

// Lookup returns the entry at path, if tracked.
func (r *Repository) Lookup(ctx context.Context, path string) (Entry, bool, error) {
	entries, err := r.Entries(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Path >= path })
	if i < len(entries) && entries[i].Path == path {
		return entries[i], true, nil
	}
	return Entry{}, false, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := runGitBytes(ctx, dir, args...)
	return string(out), err
}

func runGitBytes(ctx context.Context, dir string, args ...string) ([]byte, error) {
	log.Trace().Str("dir", dir).Strs("args", args).Msg("git")
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.Bytes(), fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}
