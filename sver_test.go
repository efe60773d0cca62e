package sver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitoma/sver/internal/testgit"
)

func TestCalcEndToEnd(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("service1/main.go", "package main")
	r.WriteFile("service1/sver.toml", "[default]\ndependencies=[\"lib1\"]\n")
	r.WriteFile("lib1/lib.go", "package lib1")
	r.Commit("initial")

	ctx := context.Background()
	v, err := Calc(ctx, r.Dir, "service1", "short")
	if err != nil {
		t.Fatalf("Calc: %v", err)
	}
	if v.Path != "service1" || v.Profile != "default" {
		t.Errorf("Path/Profile = %q/%q, want service1/default", v.Path, v.Profile)
	}
	if len(v.Version) == 0 {
		t.Error("Version is empty")
	}

	long, err := Calc(ctx, r.Dir, "service1", "long")
	if err != nil {
		t.Fatalf("Calc long: %v", err)
	}
	if len(long.Version) <= len(v.Version) {
		t.Errorf("long version %q should be longer than short version %q", long.Version, v.Version)
	}

	r.WriteFile("lib1/lib.go", "package lib1 // changed")
	r.Commit("change dependency")
	changed, err := Calc(ctx, r.Dir, "service1", "short")
	if err != nil {
		t.Fatalf("Calc after change: %v", err)
	}
	if changed.Version == v.Version {
		t.Error("version did not change after a dependency's content changed")
	}
}

func TestListEndToEnd(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("service1/main.go", "package main")
	r.WriteFile("service1/sver.toml", "[default]\ndependencies=[\"lib1\"]\n")
	r.WriteFile("lib1/lib.go", "package lib1")
	r.Commit("initial")

	paths, err := List(context.Background(), r.Dir, "service1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"lib1/lib.go", "service1/main.go", "service1/sver.toml"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestValidateEndToEnd(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("service1/main.go", "package main")
	r.WriteFile("service1/sver.toml", "[default]\ndependencies=[\"nowhere\"]\n")
	r.Commit("initial")

	records, ok, err := Validate(context.Background(), r.Dir)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok {
		t.Error("ok = true, want false for an invalid dependency")
	}
	if len(records) != 1 {
		t.Fatalf("records = %v, want exactly one", records)
	}
	if records[0].OK {
		t.Errorf("record = %+v, want OK=false", records[0])
	}
}

func TestInitConfigEndToEnd(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("service1/main.go", "package main")
	r.Commit("initial")

	wrote, err := InitConfig(context.Background(), r.Dir, "service1")
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if !wrote {
		t.Error("wrote = false, want true on first call")
	}
	if _, err := os.Stat(filepath.Join(r.Dir, "service1", "sver.toml")); err != nil {
		t.Errorf("sver.toml was not written: %v", err)
	}

	wroteAgain, err := InitConfig(context.Background(), r.Dir, "service1")
	if err != nil {
		t.Fatalf("InitConfig second call: %v", err)
	}
	if wroteAgain {
		t.Error("wrote = true on second call, want false since sver.toml already exists")
	}
}

func TestExportEndToEnd(t *testing.T) {
	r := testgit.New(t)
	r.WriteFile("service1/main.go", "package main")
	r.WriteFile("service1/sver.toml", "[default]\ndependencies=[\"lib1\"]\n")
	r.WriteFile("lib1/lib.go", "package lib1")
	r.Commit("initial")

	dest := t.TempDir()
	if err := Export(context.Background(), r.Dir, "service1", dest); err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, p := range []string{"service1/main.go", "service1/sver.toml", "lib1/lib.go"} {
		if _, err := os.Stat(filepath.Join(dest, p)); err != nil {
			t.Errorf("exported file %q missing: %v", p, err)
		}
	}
}
