package docbridge

import (
	"context"
	"strings"
)

// TopPriority is the priority of sources selected by a priority-only load.
const TopPriority = 1

// SourceKind identifies which adapter handles a source.
type SourceKind string

// SourceKind constants.
const (
	SourceRemote SourceKind = "remote"
	SourceLocal  SourceKind = "local"
)

// Source is a named origin of documentation: a URL handled by the remote
// extraction service or a path to a local file.
type Source struct {
	Name        string `json:"name" toml:"name"`
	Origin      string `json:"origin" toml:"origin"`
	Priority    int    `json:"priority" toml:"priority"`
	Description string `json:"description" toml:"description"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.Origin == "" {
		return Errorf(EINVALID, "source %q origin required", s.Name)
	}
	return nil
}

// Kind reports the adapter kind selected by the shape of the origin.
func (s *Source) Kind() SourceKind {
	origin := strings.ToLower(s.Origin)
	if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
		return SourceRemote
	}
	return SourceLocal
}

// FilterPriority returns the sources with TopPriority, preserving order.
func FilterPriority(sources []*Source) []*Source {
	var out []*Source
	for _, s := range sources {
		if s.Priority == TopPriority {
			out = append(out, s)
		}
	}
	return out
}

// SourceAdapter extracts raw units from a source.
// Implementations exist for remote (HTTP) and local (file) origins.
type SourceAdapter interface {
	// Extract returns the units extracted from the source in origin order.
	// An empty slice with a nil error means the source yielded nothing.
	Extract(ctx context.Context, src *Source) ([]*RawUnit, error)
}
