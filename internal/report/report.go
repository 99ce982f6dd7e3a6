package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/annotcheck/internal/coco"
	"gopkg.in/yaml.v3"
)

// CodeLoad marks documents that could not be read or decoded.
const CodeLoad = "load"

// Result is the outcome of validating one document
type Result struct {
	Source      string         `json:"source" yaml:"source"`
	Valid       bool           `json:"valid" yaml:"valid"`
	Code        string         `json:"code,omitempty" yaml:"code,omitempty"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
	Images      int            `json:"images" yaml:"images"`
	Annotations int            `json:"annotations" yaml:"annotations"`
	Categories  int            `json:"categories" yaml:"categories"`
	LabelCounts map[string]int `json:"label_counts,omitempty" yaml:"labelcounts,omitempty"`
}

// Config records how the documents were validated
type Config struct {
	Labels       []string `json:"labels" yaml:"labels"`
	CategoryRefs bool     `json:"category_refs" yaml:"categoryrefs"`
	Timestamp    string   `json:"timestamp" yaml:"timestamp"`
}

// Report groups results from one validation run
type Report struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Config  Config   `json:"config" yaml:"config"`
	Results []Result `json:"results" yaml:"results"`
}

// New creates an empty report for a validator configuration.
func New(v *coco.Validator) *Report {
	return &Report{
		Config: Config{
			Labels:       v.Labels.Names(),
			CategoryRefs: v.CategoryRefs,
			Timestamp:    time.Now().Format("2006-01-02_15-04-05"),
		},
	}
}

// NewResult summarises a validation outcome. ds is ignored when err is set.
func NewResult(source string, ds *coco.Dataset, err error) Result {
	result := Result{Source: source}

	if err != nil {
		result.Error = err.Error()
		result.Code = coco.ErrorCode(err)
		if result.Code == "" {
			result.Code = CodeLoad
		}
		return result
	}

	result.Valid = true
	result.Images = len(ds.Images)
	result.Annotations = len(ds.Annotations)
	result.Categories = len(ds.Categories)

	names := ds.CategoryNames()
	for _, ann := range ds.Annotations {
		name, ok := names[ann.CategoryID]
		if !ok {
			name = fmt.Sprintf("<unknown:%d>", ann.CategoryID)
		}
		if result.LabelCounts == nil {
			result.LabelCounts = make(map[string]int)
		}
		result.LabelCounts[name]++
	}

	return result
}

// Failed returns the number of invalid documents.
func (r *Report) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if !res.Valid {
			failed++
		}
	}
	return failed
}

// Write renders the report as text, json or yaml.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "text", "":
		return r.WriteText(w)
	case "json":
		return r.WriteJSON(w)
	case "yaml":
		return r.WriteYAML(w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	for _, res := range r.Results {
		if !res.Valid {
			fmt.Fprintf(&b, "FAIL %s\n", res.Source)
			fmt.Fprintf(&b, "  [%s] %s\n", res.Code, res.Error)
			continue
		}

		fmt.Fprintf(&b, "ok   %s (%d images, %d annotations, %d categories)\n",
			res.Source, res.Images, res.Annotations, res.Categories)

		labels := make([]string, 0, len(res.LabelCounts))
		for label := range res.LabelCounts {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&b, "       %-10s %d\n", label, res.LabelCounts[label])
		}
	}

	fmt.Fprintf(&b, "\n%d documents, %d failed\n", len(r.Results), r.Failed())

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

func (r *Report) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return encoder.Close()
}

// Save writes the report to path as YAML or JSON depending on extension.
func (r *Report) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.Write(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
