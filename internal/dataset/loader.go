package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads one annotation document from disk into the untyped form the
// validator consumes.
type Loader struct {
	documentPath string
}

// NewLoader creates a new document loader
func NewLoader(documentPath string) *Loader {
	return &Loader{
		documentPath: documentPath,
	}
}

// Load decodes the document (JSON or YAML)
func (l *Loader) Load() (any, error) {
	ext := strings.ToLower(filepath.Ext(l.documentPath))

	switch ext {
	case ".json":
		return l.loadJSON()
	case ".yaml", ".yml":
		return l.loadYAML()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml)", ext)
	}
}

func (l *Loader) read() ([]byte, error) {
	data, err := os.ReadFile(l.documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	slog.Debug("Read annotation file", "path", l.documentPath, "size_bytes", len(data))
	return data, nil
}

// loadJSON keeps numbers as json.Number so integers and fractions stay
// distinguishable.
func (l *Loader) loadJSON() (any, error) {
	data, err := l.read()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON in %s: %w", l.documentPath, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON in %s: unexpected data after document", l.documentPath)
	}

	return doc, nil
}

func (l *Loader) loadYAML() (any, error) {
	data, err := l.read()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", l.documentPath, err)
	}

	return stringKeys(doc), nil
}

// stringKeys rewrites mappings with non-string keys (yaml.v3 decodes
// `2017: release` as map[any]any) so every object is a map[string]any.
func stringKeys(v any) any {
	switch x := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		for k, val := range x {
			x[k] = stringKeys(val)
		}
		return x
	case []any:
		for i, val := range x {
			x[i] = stringKeys(val)
		}
		return x
	default:
		return v
	}
}

// SplitPath returns the conventional location of a split's annotation file,
// e.g. data/coco_sample/annotations/split_train.json.
func SplitPath(root, split string) string {
	return filepath.Join(root, "annotations", fmt.Sprintf("split_%s.json", split))
}

// IsRemote reports whether source should be fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// LoadSource loads a local path, or downloads an http(s) URL through the
// cache first.
func LoadSource(ctx context.Context, source string, config DownloadConfig) (any, error) {
	path := source
	if IsRemote(source) {
		var err error
		path, err = NewDownloader(config).Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
	}
	return NewLoader(path).Load()
}
