// Package toml loads source catalogs from TOML files.
//
// A catalog lists one [[source]] table per documentation source:
//
//	[[source]]
//	name = "React"
//	origin = "https://react.dev/reference"
//	priority = 1
//	description = "React library"
package toml

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"github.com/fwojciec/docbridge"
	"github.com/pelletier/go-toml/v2"
)

type catalogFile struct {
	Sources []*docbridge.Source `toml:"source"`
}

// LoadCatalog reads the catalog at path.
func LoadCatalog(path string) ([]*docbridge.Source, error) {
	f, err := os.Open(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, docbridge.Errorf(docbridge.ENOTFOUND, "catalog not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog decodes a catalog and validates every source. Unknown keys,
// duplicate names and negative priorities are rejected.
func ParseCatalog(r io.Reader) ([]*docbridge.Source, error) {
	var file catalogFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
		return nil, docbridge.WrapError(docbridge.EINVALID, err, "parse catalog")
	}

	seen := make(map[string]bool, len(file.Sources))
	for _, src := range file.Sources {
		if err := src.Validate(); err != nil {
			return nil, err
		}
		if src.Priority < 0 {
			return nil, docbridge.Errorf(docbridge.EINVALID, "source %q priority must not be negative", src.Name)
		}
		if seen[src.Name] {
			return nil, docbridge.Errorf(docbridge.EINVALID, "duplicate source %q", src.Name)
		}
		seen[src.Name] = true
	}
	return file.Sources, nil
}
