package model

import (
	"net/url"
	"path/filepath"
)

// ReferenceKind tells remote references from local ones.
type ReferenceKind int

const (
	// KindLocal is a filesystem path.
	KindLocal ReferenceKind = iota
	// KindRemote is an absolute URL.
	KindRemote
)

func (k ReferenceKind) String() string {
	if k == KindRemote {
		return "remote"
	}
	return "local"
}

// Reference points at an image, either on the network or on disk.
// The zero value is a local reference to the empty path.
type Reference struct {
	kind ReferenceKind
	url  *url.URL
	path string
}

// RemoteReference wraps an already parsed URL.
func RemoteReference(u *url.URL) Reference {
	clone := *u
	return Reference{kind: KindRemote, url: &clone}
}

// LocalReference wraps a filesystem path. Relative paths are resolved against
// the working directory.
func LocalReference(path string) Reference {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return Reference{kind: KindLocal, path: path}
}

// ParseReference never fails: anything that is not an absolute URL with both a
// scheme and a host is a local path. A string that parses as a URL stays remote
// even if a file with the same name exists.
func ParseReference(s string) Reference {
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		return Reference{kind: KindRemote, url: u}
	}
	return LocalReference(s)
}

// Kind returns the reference kind.
func (r Reference) Kind() ReferenceKind { return r.kind }

// IsRemote reports whether r points at a URL.
func (r Reference) IsRemote() bool { return r.kind == KindRemote }

// URL returns a copy of the remote URL, or nil for local references.
func (r Reference) URL() *url.URL {
	if r.url == nil {
		return nil
	}
	clone := *r.url
	return &clone
}

// Path returns the absolute local path, or "" for remote references.
func (r Reference) Path() string { return r.path }

func (r Reference) String() string {
	if r.kind == KindRemote {
		return r.url.String()
	}
	return r.path
}
