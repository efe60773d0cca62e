// Package validate walks every sver.toml tracked in a repository and
// checks each profile's dependencies and excludes for relevance. It
// shares the resolution machinery (gitrepo, sverconfig, pathclass) but
// never aborts on first failure: it demotes every failure into a
// structured Record instead of propagating it.
package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mitoma/sver/internal/fsutil"
	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/pathclass"
	"github.com/mitoma/sver/internal/sverconfig"
)

// Record is a per-(sver.toml path, profile) validation verdict.
type Record struct {
	Path                string
	Profile             string
	OK                  bool
	ParseError          string
	InvalidDependencies []string
	InvalidExcludes     []string
}

// String renders a Record the way `sver validate` prints it.
func (r Record) String() string {
	if r.OK {
		return fmt.Sprintf("[OK]\t%s/sver.toml:[%s]", r.Path, r.Profile)
	}
	if r.ParseError != "" {
		return fmt.Sprintf("[NG]\t%s/sver.toml:[%s]\n\t\tparse_error:%s", r.Path, r.Profile, r.ParseError)
	}
	return fmt.Sprintf("[NG]\t%s/sver.toml:[%s]\n\t\tinvalid_dependency:%s\n\t\tinvalid_exclude:%s",
		r.Path, r.Profile, debugList(r.InvalidDependencies), debugList(r.InvalidExcludes))
}

// debugList renders a string slice as quoted, comma-separated elements
// in brackets, e.g. ["a", "b"].
func debugList(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ValidateAll walks every sver.toml in repo's index and validates every
// profile it defines. It returns the full set of records (one per
// (directory, profile)) plus an overall boolean success.
func ValidateAll(ctx context.Context, repo *gitrepo.Repository, loader *sverconfig.Loader) ([]Record, bool, error) {
	entries, err := repo.Entries(ctx)
	if err != nil {
		return nil, false, err
	}

	dirs := configDirs(entries)
	var records []Record
	ok := true

	for _, dir := range dirs {
		profiles, parseErr := loadDocumentProfiles(ctx, repo, dir)
		if parseErr != "" {
			records = append(records, Record{Path: dir, Profile: sverconfig.DefaultProfile, ParseError: parseErr})
			ok = false
			continue
		}

		for _, profileName := range profiles {
			prof, err := loader.Profile(ctx, dir, profileName)
			if err != nil {
				records = append(records, Record{Path: dir, Profile: profileName, ParseError: err.Error()})
				ok = false
				continue
			}

			rec := validateProfile(ctx, repo, dir, profileName, prof)
			if !rec.OK {
				ok = false
			}
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Path != records[j].Path {
			return records[i].Path < records[j].Path
		}
		return records[i].Profile < records[j].Profile
	})

	return records, ok, nil
}

func validateProfile(ctx context.Context, repo *gitrepo.Repository, dir, profileName string, prof sverconfig.Profile) Record {
	rec := Record{Path: dir, Profile: profileName}

	for _, dep := range prof.Dependencies {
		depPath, depProfile := sverconfig.SplitPathAndProfile(dep)
		depPath = fsutil.JoinRel("", depPath)

		cls, err := pathclass.Classify(ctx, repo, depPath)
		if err != nil || (cls.Kind != pathclass.KindFile && cls.Kind != pathclass.KindDirectory) {
			rec.InvalidDependencies = append(rec.InvalidDependencies, dep)
			continue
		}
		// A file dependency cannot carry a non-default profile suffix: a
		// file has no profiles of its own to select.
		if cls.Kind == pathclass.KindFile && depProfile != sverconfig.DefaultProfile && strings.Contains(dep, ":") {
			rec.InvalidDependencies = append(rec.InvalidDependencies, dep)
		}
	}

	for _, ex := range prof.Excludes {
		target := fsutil.JoinRel(dir, ex)
		cls, err := pathclass.Classify(ctx, repo, target)
		if err != nil || (cls.Kind != pathclass.KindFile && cls.Kind != pathclass.KindDirectory) {
			rec.InvalidExcludes = append(rec.InvalidExcludes, ex)
		}
	}

	rec.OK = len(rec.InvalidDependencies) == 0 && len(rec.InvalidExcludes) == 0
	return rec
}

// configDirs returns, sorted, the directory (repo-root-relative, "" for
// root) of every tracked sver.toml.
func configDirs(entries []gitrepo.Entry) []string {
	var dirs []string
	for _, e := range entries {
		if strings.HasSuffix(e.Path, "/"+sverconfig.ConfigFileName) {
			dirs = append(dirs, strings.TrimSuffix(e.Path, "/"+sverconfig.ConfigFileName))
		} else if e.Path == sverconfig.ConfigFileName {
			dirs = append(dirs, "")
		}
	}
	sort.Strings(dirs)
	return dirs
}

// loadDocumentProfiles returns the sorted profile names defined in
// {dir}/sver.toml, or a non-empty parseErr if the file is malformed.
func loadDocumentProfiles(ctx context.Context, repo *gitrepo.Repository, dir string) (names []string, parseErr string) {
	path := sverconfig.ConfigFileName
	if dir != "" {
		path = dir + "/" + sverconfig.ConfigFileName
	}
	entry, found, err := repo.Lookup(ctx, path)
	if err != nil || !found {
		return nil, ""
	}
	text, err := repo.BlobUTF8(ctx, entry.Oid)
	if err != nil {
		return nil, err.Error()
	}
	doc, err := sverconfig.DecodeDocument(text)
	if err != nil {
		return nil, err.Error()
	}
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, ""
}
