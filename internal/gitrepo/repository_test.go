package gitrepo_test

import (
	"context"
	"testing"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/testgit"
)

func TestOpenDiscoversRootFromSubdirectory(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a/b/c.txt", "hi")
	r.Commit("initial")

	ctx := context.Background()
	repo, err := gitrepo.Open(ctx, r.Dir+"/a/b")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if repo.Root() != r.Dir {
		t.Fatalf("got root %q, want %q", repo.Root(), r.Dir)
	}
}

func TestOpenOutsideRepositoryFails(t *testing.T) {
	ctx := context.Background()
	if _, err := gitrepo.Open(ctx, t.TempDir()); err == nil {
		t.Fatalf("expected an error opening a non-repository directory")
	}
}

func TestEntriesAndBlob(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hello")
	r.WriteExecutable("run.sh", "#!/bin/sh\necho hi\n")
	r.Commit("initial")

	ctx := context.Background()
	repo, err := gitrepo.Open(ctx, r.Dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	entries, err := repo.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}

	var textEntry, execEntry gitrepo.Entry
	for _, e := range entries {
		switch e.Path {
		case "a.txt":
			textEntry = e
		case "run.sh":
			execEntry = e
		}
	}

	if textEntry.Kind != gitrepo.File {
		t.Fatalf("expected a.txt to be a File entry, got %v", textEntry.Kind)
	}
	if execEntry.Kind != gitrepo.Executable {
		t.Fatalf("expected run.sh to be an Executable entry, got %v", execEntry.Kind)
	}

	text, err := repo.BlobUTF8(ctx, textEntry.Oid)
	if err != nil {
		t.Fatalf("BlobUTF8: %v", err)
	}
	if text != "hello" {
		t.Fatalf("got blob %q, want %q", text, "hello")
	}
}

func TestLookupMissingPath(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hello")
	r.Commit("initial")

	ctx := context.Background()
	repo, err := gitrepo.Open(ctx, r.Dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, found, err := repo.Lookup(ctx, "missing.txt")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if found {
		t.Fatalf("expected missing.txt to not be found")
	}
}

func TestSymlinkEntryKind(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("original.txt", "hi")
	r.Symlink("link.txt", "original.txt")
	r.Commit("initial")

	ctx := context.Background()
	repo, err := gitrepo.Open(ctx, r.Dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	entry, found, err := repo.Lookup(ctx, "link.txt")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !found {
		t.Fatalf("expected link.txt to be found")
	}
	if entry.Kind != gitrepo.Symlink {
		t.Fatalf("expected Symlink kind, got %v", entry.Kind)
	}

	target, err := repo.BlobUTF8(ctx, entry.Oid)
	if err != nil {
		t.Fatalf("BlobUTF8: %v", err)
	}
	if target != "original.txt" {
		t.Fatalf("got symlink target %q, want %q", target, "original.txt")
	}
}
