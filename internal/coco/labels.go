package coco

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLabels is the label set the CLI uses when none is configured.
var DefaultLabels = NewLabelSet("chair", "couch", "tv", "remote", "book", "vase")

// LabelSet is the closed set of permitted category names.
type LabelSet map[string]struct{}

// NewLabelSet builds a set from names. Blank names are skipped.
func NewLabelSet(names ...string) LabelSet {
	set := make(LabelSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// ParseLabels parses a comma separated list such as "chair,couch,tv".
func ParseLabels(s string) LabelSet {
	return NewLabelSet(strings.Split(s, ",")...)
}

// Contains reports whether name is permitted.
func (s LabelSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the labels sorted.
func (s LabelSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s LabelSet) String() string {
	return strings.Join(s.Names(), ", ")
}

type labelsFile struct {
	Labels []string `yaml:"labels"`
}

// LoadLabelsFile reads a YAML file of the form
//
//	labels: [chair, couch, tv]
func LoadLabelsFile(path string) (LabelSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	var lf labelsFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse labels file %s: %w", path, err)
	}

	set := NewLabelSet(lf.Labels...)
	if len(set) == 0 {
		return nil, fmt.Errorf("labels file %s declares no labels", path)
	}
	return set, nil
}
