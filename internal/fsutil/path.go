// Package fsutil holds the small repository-relative path helpers shared
// by the classifier, resolver and validator. Repository paths are always
// forward-slash, regardless of host OS, since they mirror git's own index
// path encoding.
package fsutil

import "strings"

// CleanRel cleans a repository-relative, forward-slash path: collapses
// "." and ".." components and duplicate separators, without touching the
// host filesystem or consulting filepath (which would apply OS-specific
// separator rules we don't want here).
// The repository root is represented by "", never ".", so that string
// concatenation ("dir" + "/" + "name") works uniformly for both root and
// non-root directories without a special case at every call site.
func CleanRel(p string) string {
	if p == "" || p == "." {
		return ""
	}
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
				continue
			}
			out = append(out, part)
		default:
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "/")
}

// EscapesRoot reports whether a cleaned relative path climbs above the
// root it is supposed to be relative to.
func EscapesRoot(cleaned string) bool {
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

// JoinRel joins a repository-relative directory and a (possibly
// relative, possibly escaping) target, then cleans the result the same
// way CleanRel does.
func JoinRel(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return CleanRel(target[1:])
	}
	if dir == "" || dir == "." {
		return CleanRel(target)
	}
	return CleanRel(dir + "/" + target)
}

// HasDirPrefix reports whether path is dir itself or lies under it.
func HasDirPrefix(path, dir string) bool {
	if dir == "" || dir == "." {
		return true
	}
	return path == dir || strings.HasPrefix(path, dir+"/")
}
