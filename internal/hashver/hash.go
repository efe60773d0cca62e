// Package hashver folds a resolved, ordered entry list into a single
// SHA-256 digest under a canonical byte layout: path, mode, content and
// (for symlinks) target, each null-separated, written in path order.
package hashver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/resolve"
)

// Digest is a raw 32-byte SHA-256 digest over the entries' canonical byte
// stream.
type Digest [sha256.Size]byte

// Hash computes the canonical digest for entries, fetching each source
// entry's content from repo on demand. Entries must already be sorted by
// path (Resolve guarantees this).
func Hash(ctx context.Context, repo *gitrepo.Repository, entries []resolve.Entry) (Digest, error) {
	h := sha256.New()

	for _, e := range entries {
		h.Write([]byte(e.Path))
		h.Write(sep)

		if e.Kind == resolve.Phantom {
			h.Write([]byte("dir"))
			h.Write(sep)
			continue
		}

		h.Write([]byte(modeDecimal(e.Mode)))
		h.Write(sep)

		content, err := entryContent(ctx, repo, e)
		if err != nil {
			return Digest{}, err
		}
		if content != nil {
			h.Write(content)
			h.Write(sep)
		}

		if e.GitKind == gitrepo.Symlink {
			h.Write([]byte(e.Target))
			h.Write(sep)
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

var sep = []byte{0x00}

// entryContent returns the bytes to hash for a source entry: the blob's
// raw bytes for a regular file/executable/symlink, or the gitlink's
// recorded commit oid rendered in its canonical hex form.
func entryContent(ctx context.Context, repo *gitrepo.Repository, e resolve.Entry) ([]byte, error) {
	if e.GitKind == gitrepo.Gitlink {
		return []byte(e.Oid), nil
	}
	return repo.Blob(ctx, e.Oid)
}

// modeDecimal renders a git octal mode string ("100644") as its ASCII
// decimal form. Git's ls-files/ls-tree already print modes in octal
// text; this reinterprets those digits as octal and re-renders them in
// decimal.
func modeDecimal(mode string) string {
	n, err := strconv.ParseInt(mode, 8, 64)
	if err != nil {
		return mode
	}
	return strconv.FormatInt(n, 10)
}

// Short returns the leading 12 hex characters of a digest.
func Short(d Digest) string {
	return Long(d)[:12]
}

// Long returns the full 64 hex characters of a digest.
func Long(d Digest) string {
	return hex.EncodeToString(d[:])
}
