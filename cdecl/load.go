package cdecl

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Decode reads a declaration document. format is "json" or "yaml".
func Decode(data []byte, format string) (*Decl, error) {
	var d Decl
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unsupported declaration format %q", format)
	}
	if d.Kind == "" {
		return nil, errors.Errorf("declaration document has no kind")
	}
	return &d, nil
}

// Load reads a declaration document, choosing the format by extension.
func Load(path string) (*Decl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	d, err := Decode(data, format)
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// IsDocument reports whether path names a declaration document rather than
// a header.
func IsDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// DocumentProvider serves pre-exported declaration documents. Each entry
// names a document; their top-level declarations are merged under one
// translation unit.
type DocumentProvider struct{}

// Parse implements Provider.
func (DocumentProvider) Parse(ctx context.Context, req Request) (*Decl, error) {
	root := &Decl{Kind: KindTranslationUnit}
	for _, entry := range req.EntryHeaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := Load(entry)
		if err != nil {
			return nil, err
		}
		if d.Kind == KindTranslationUnit {
			root.Children = append(root.Children, d.Children...)
		} else {
			root.Children = append(root.Children, d)
		}
	}
	return root, nil
}
