// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package reposource

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	svchost "github.com/hashicorp/terraform-svchost"
)

// Specifier is an opaque, canonicalized reference to a remote or local
// repository. Two Specifiers are Equal if and only if their canonical forms
// are identical byte-for-byte.
type Specifier struct {
	canonical string
	local     bool
}

// ParseSpecifier interprets given as either a local absolute filesystem path
// or a URL-like remote location, and returns the canonicalized Specifier for
// it.
//
// As a convenience, and consistently with the shorthand forms recognized by
// go-getter-style source address parsing, a bare "github.com/org/repo" or
// "gitlab.com/org/repo" is expanded to an explicit "https://.../repo.git"
// location before canonicalization.
func ParseSpecifier(given string) (Specifier, error) {
	if given == "" {
		return Specifier{}, fmt.Errorf("repository location must not be empty")
	}

	if filepath.IsAbs(given) {
		return specifierForLocalPath(given)
	}

	expanded := given
	for _, shorthand := range remoteShorthands {
		replacement, ok, err := shorthand(given)
		if err != nil {
			return Specifier{}, err
		}
		if ok {
			expanded = replacement
			break
		}
	}

	return specifierForURL(expanded)
}

// ParseLocalSpecifier builds a Specifier directly from an absolute local
// filesystem path, bypassing URL shorthand expansion. It fails if path is
// not absolute.
func ParseLocalSpecifier(path string) (Specifier, error) {
	if !filepath.IsAbs(path) {
		return Specifier{}, fmt.Errorf("local repository path %q must be absolute", path)
	}
	return specifierForLocalPath(path)
}

func specifierForLocalPath(path string) (Specifier, error) {
	clean := filepath.Clean(path)
	return Specifier{canonical: "file://" + filepath.ToSlash(clean), local: true}, nil
}

func specifierForURL(given string) (Specifier, error) {
	u, err := url.Parse(given)
	if err != nil {
		return Specifier{}, fmt.Errorf("invalid repository location %q: %w", given, err)
	}
	if u.Scheme == "" {
		return Specifier{}, fmt.Errorf("repository location %q must be an absolute URL or an absolute local path", given)
	}
	if u.User != nil {
		return Specifier{}, fmt.Errorf("repository location must not include userinfo")
	}

	u.Scheme = strings.ToLower(u.Scheme)

	if u.Host != "" {
		host, err := svchost.ForComparison(u.Host)
		if err != nil {
			return Specifier{}, fmt.Errorf("invalid repository hostname %q: %w", u.Host, err)
		}
		u.Host = string(host)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return Specifier{canonical: u.String(), local: false}, nil
}

// String returns the canonical form of the specifier. Two specifiers for
// equivalent locations always return identical strings.
func (s Specifier) String() string {
	return s.canonical
}

// IsLocal reports whether the specifier was derived from a local filesystem
// path rather than a remote URL-like location.
func (s Specifier) IsLocal() bool {
	return s.local
}

// IsZero reports whether this is the zero-value Specifier, i.e. it was never
// produced by a successful parse.
func (s Specifier) IsZero() bool {
	return s.canonical == ""
}

// Equal reports whether s and other refer to the same repository location.
func (s Specifier) Equal(other Specifier) bool {
	return s.canonical == other.canonical
}

type shorthandFunc func(given string) (expanded string, ok bool, err error)

// remoteShorthands mirrors the small set of "detector" shims go-getter (and
// go-slug's sourceaddrs package) historically supported, letting callers
// write a bare GitHub or GitLab repository path instead of a fully-qualified
// git:: URL.
var remoteShorthands = []shorthandFunc{
	githubShorthand,
	gitlabShorthand,
}

func githubShorthand(given string) (string, bool, error) {
	return hostShorthand(given, "github.com")
}

func gitlabShorthand(given string) (string, bool, error) {
	return hostShorthand(given, "gitlab.com")
}

var shorthandTrailingSlash = regexp.MustCompile(`/+$`)

func hostShorthand(given, host string) (string, bool, error) {
	prefix := host + "/"
	if !strings.HasPrefix(given, prefix) {
		return "", false, nil
	}

	trimmed := shorthandTrailingSlash.ReplaceAllString(given, "")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 {
		return "", false, fmt.Errorf("%s shorthand addresses must start with %s/organization/repository", host, host)
	}

	repoURL := "https://" + strings.Join(parts[:3], "/")
	if !strings.HasSuffix(repoURL, ".git") {
		repoURL += ".git"
	}

	return repoURL, true, nil
}
