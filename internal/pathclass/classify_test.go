package pathclass_test

import (
	"context"
	"testing"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/pathclass"
	"github.com/mitoma/sver/internal/testgit"
)

func open(t *testing.T, dir string) (*gitrepo.Repository, context.Context) {
	t.Helper()
	ctx := context.Background()
	repo, err := gitrepo.Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return repo, ctx
}

func TestClassifyFile(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hi")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	cls, err := pathclass.Classify(ctx, repo, "a.txt")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Kind != pathclass.KindFile {
		t.Fatalf("got Kind %v, want KindFile", cls.Kind)
	}
}

func TestClassifyDirectory(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("service1/a.txt", "hi")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	cls, err := pathclass.Classify(ctx, repo, "service1")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Kind != pathclass.KindDirectory {
		t.Fatalf("got Kind %v, want KindDirectory", cls.Kind)
	}
}

func TestClassifyRootDirectory(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hi")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	cls, err := pathclass.Classify(ctx, repo, "")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Kind != pathclass.KindDirectory {
		t.Fatalf("got Kind %v, want KindDirectory", cls.Kind)
	}
}

func TestClassifyGitlink(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hi")
	r.Commit("initial")
	r.AddGitlink("vendor/lib", "0000000000000000000000000000000000000001")
	r.CommitStaged("add submodule")
	repo, ctx := open(t, r.Dir)

	cls, err := pathclass.Classify(ctx, repo, "vendor/lib")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Kind != pathclass.KindGitlink {
		t.Fatalf("got Kind %v, want KindGitlink", cls.Kind)
	}
}

func TestClassifySymlinkReportsResolvedPath(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("original/README.txt", "hi")
	r.Symlink("linkdir/symlink", "../original/README.txt")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	cls, err := pathclass.Classify(ctx, repo, "linkdir/symlink")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Kind != pathclass.KindSymlink {
		t.Fatalf("got Kind %v, want KindSymlink", cls.Kind)
	}
	if cls.ResolvedPath != "original/README.txt" {
		t.Fatalf("got ResolvedPath %q, want %q", cls.ResolvedPath, "original/README.txt")
	}
}

func TestClassifyNotFound(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hi")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	_, err := pathclass.Classify(ctx, repo, "missing")
	if err == nil {
		t.Fatalf("expected an error for a missing path")
	}
}

func TestExpandDirectoryRoot(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("a.txt", "hi")
	r.WriteFile("sub/b.txt", "bye")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	entries, err := pathclass.ExpandDirectory(ctx, repo, "")
	if err != nil {
		t.Fatalf("ExpandDirectory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
}

func TestExpandDirectoryDoesNotMatchSiblingWithSharedPrefix(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("lib/a.txt", "a")
	r.WriteFile("lib2/b.txt", "b")
	r.Commit("initial")
	repo, ctx := open(t, r.Dir)

	entries, err := pathclass.ExpandDirectory(ctx, repo, "lib")
	if err != nil {
		t.Fatalf("ExpandDirectory: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "lib/a.txt" {
		t.Fatalf("got %+v, want only lib/a.txt", entries)
	}
}
