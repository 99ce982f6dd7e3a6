package coco

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

const sampleDoc = `{"images":[{"id":1,"file_name":"a.jpg"}],"annotations":[{"image_id":1,"bbox":[0,0,10,10],"category_id":5}],"categories":[{"id":5,"name":"chair"}]}`

// parseDoc decodes s the way the dataset loader does.
func parseDoc(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("Failed to parse test document: %v", err)
	}
	return doc
}

func TestValidateSample(t *testing.T) {
	ds, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(ds.Images) != 1 || len(ds.Annotations) != 1 || len(ds.Categories) != 1 {
		t.Fatalf("Expected 1/1/1 records, got %d/%d/%d", len(ds.Images), len(ds.Annotations), len(ds.Categories))
	}

	if ds.Images[0] != (Image{ID: 1, FileName: "a.jpg"}) {
		t.Errorf("Unexpected image: %+v", ds.Images[0])
	}
	want := Annotation{ImageID: 1, BBox: BBox{0, 0, 10, 10}, CategoryID: 5}
	if ds.Annotations[0] != want {
		t.Errorf("Expected annotation %+v, got %+v", want, ds.Annotations[0])
	}
	if ds.Categories[0] != (Category{ID: 5, Name: "chair"}) {
		t.Errorf("Unexpected category: %+v", ds.Categories[0])
	}
}

func TestValidateEmptyDataset(t *testing.T) {
	ds, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, `{"images":[],"annotations":[],"categories":[]}`))
	if err != nil {
		t.Fatalf("Expected empty dataset to validate, got %v", err)
	}
	if len(ds.Images)+len(ds.Annotations)+len(ds.Categories) != 0 {
		t.Errorf("Expected empty dataset, got %+v", ds)
	}
}

func TestValidateDuplicateImageID(t *testing.T) {
	doc := `{"images":[{"id":1,"file_name":"a.jpg"},{"id":1,"file_name":"b.jpg"}],"annotations":[{"image_id":1,"bbox":[0,0,10,10],"category_id":5}],"categories":[{"id":5,"name":"chair"}]}`

	_, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, doc))

	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateIDError, got %v", err)
	}
	if dup.Kind != KindImage || dup.ID != 1 {
		t.Errorf("Expected image id 1, got %s id %d", dup.Kind, dup.ID)
	}
	if !errors.Is(err, ErrDuplicateID) {
		t.Error("Expected errors.Is(err, ErrDuplicateID)")
	}
}

func TestValidateDuplicateCategoryID(t *testing.T) {
	doc := `{"images":[{"id":1,"file_name":"a.jpg"}],"annotations":[],"categories":[{"id":5,"name":"chair"},{"id":7,"name":"tv"},{"id":5,"name":"book"}]}`

	_, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, doc))

	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateIDError, got %v", err)
	}
	if dup.Kind != KindCategory || dup.ID != 5 {
		t.Errorf("Expected category id 5, got %s id %d", dup.Kind, dup.ID)
	}
}

func TestValidateDanglingImageReference(t *testing.T) {
	doc := `{"images":[{"id":1,"file_name":"a.jpg"}],"annotations":[{"image_id":1,"bbox":[0,0,10,10],"category_id":5},{"image_id":99,"bbox":[1,2,3,4],"category_id":5}],"categories":[{"id":5,"name":"chair"}]}`

	_, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, doc))

	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Expected DanglingReferenceError, got %v", err)
	}
	if dangling.ID != 99 || dangling.Index != 1 || dangling.Field != "image_id" {
		t.Errorf("Expected annotations[1].image_id=99, got %+v", dangling)
	}
}

func TestValidateNoImagesWithAnnotations(t *testing.T) {
	doc := `{"images":[],"annotations":[{"image_id":3,"bbox":[0,0,1,1],"category_id":5}],"categories":[{"id":5,"name":"vase"}]}`

	_, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, doc))

	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Expected DanglingReferenceError, got %v", err)
	}
	if dangling.Index != 0 || dangling.ID != 3 {
		t.Errorf("Expected annotations[0] image 3, got %+v", dangling)
	}
}

func TestCheckOrder(t *testing.T) {
	// duplicate image, duplicate category and a dangling ref all at once
	doc := `{"images":[{"id":2,"file_name":"a.jpg"},{"id":2,"file_name":"b.jpg"}],"annotations":[{"image_id":8,"bbox":[0,0,1,1],"category_id":1}],"categories":[{"id":1,"name":"tv"},{"id":1,"name":"tv"}]}`

	_, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, doc))

	var dup *DuplicateIDError
	if !errors.As(err, &dup) || dup.Kind != KindImage {
		t.Fatalf("Expected image duplicate to be reported first, got %v", err)
	}
}

func TestCategoryReferences(t *testing.T) {
	doc := `{"images":[{"id":1,"file_name":"a.jpg"}],"annotations":[{"image_id":1,"bbox":[0,0,10,10],"category_id":42}],"categories":[{"id":5,"name":"chair"}]}`

	if _, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, doc)); err != nil {
		t.Fatalf("Expected unknown category_id to pass without CategoryRefs, got %v", err)
	}

	_, err := NewValidator(DefaultLabels, true).Validate(parseDoc(t, doc))
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Expected DanglingReferenceError, got %v", err)
	}
	if dangling.Field != "category_id" || dangling.ID != 42 {
		t.Errorf("Expected category_id 42, got %+v", dangling)
	}
}

func TestSchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		path     string
		expected string
	}{
		{
			name:     "root is not an object",
			doc:      `[1,2,3]`,
			path:     "$",
			expected: "object",
		},
		{
			name:     "missing images",
			doc:      `{"annotations":[],"categories":[]}`,
			path:     "images",
			expected: "array",
		},
		{
			name:     "categories is an object",
			doc:      `{"images":[],"annotations":[],"categories":{}}`,
			path:     "categories",
			expected: "array",
		},
		{
			name:     "image id is a string",
			doc:      `{"images":[{"id":"1","file_name":"a.jpg"}],"annotations":[],"categories":[]}`,
			path:     "images[0].id",
			expected: "integer",
		},
		{
			name:     "file name is null",
			doc:      `{"images":[{"id":1,"file_name":null}],"annotations":[],"categories":[]}`,
			path:     "images[0].file_name",
			expected: "string",
		},
		{
			name:     "annotation is not an object",
			doc:      `{"images":[],"annotations":[7],"categories":[]}`,
			path:     "annotations[0]",
			expected: "object",
		},
		{
			name:     "bbox has three items",
			doc:      `{"images":[],"annotations":[{"image_id":1,"bbox":[0,0,10],"category_id":5}],"categories":[]}`,
			path:     "annotations[0].bbox",
			expected: "array of exactly 4 integers",
		},
		{
			name:     "bbox has five items",
			doc:      `{"images":[],"annotations":[{"image_id":1,"bbox":[0,0,10,10,1],"category_id":5}],"categories":[]}`,
			path:     "annotations[0].bbox",
			expected: "array of exactly 4 integers",
		},
		{
			name:     "bbox has a fractional value",
			doc:      `{"images":[],"annotations":[{"image_id":1,"bbox":[0,0,10.5,10],"category_id":5}],"categories":[]}`,
			path:     "annotations[0].bbox[2]",
			expected: "integer",
		},
		{
			name:     "missing category_id",
			doc:      `{"images":[],"annotations":[{"image_id":1,"bbox":[0,0,10,10]}],"categories":[]}`,
			path:     "annotations[0].category_id",
			expected: "integer",
		},
		{
			name:     "category name is a boolean",
			doc:      `{"images":[],"annotations":[],"categories":[{"id":1,"name":true}]}`,
			path:     "categories[0].name",
			expected: "string",
		},
		{
			name:     "category name outside label set",
			doc:      `{"images":[],"annotations":[],"categories":[{"id":1,"name":"chair"},{"id":2,"name":"lamp"}]}`,
			path:     "categories[1].name",
			expected: "one of [book, chair, couch, remote, tv, vase]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewValidator(DefaultLabels, false).Validate(parseDoc(t, tt.doc))

			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected SchemaError, got %v", err)
			}
			if schemaErr.Path != tt.path {
				t.Errorf("Expected path %s, got %s", tt.path, schemaErr.Path)
			}
			if schemaErr.Expected != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, schemaErr.Expected)
			}
			if ErrorCode(err) != CodeSchema {
				t.Errorf("Expected code %s, got %s", CodeSchema, ErrorCode(err))
			}
		})
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{Path: "categories[0].name", Expected: "one of [chair]", Actual: `"lamp"`}
	want := `schema error: categories[0].name: expected one of [chair], got "lamp"`
	if err.Error() != want {
		t.Errorf("Expected %s, got %s", want, err.Error())
	}
}

func TestCustomLabels(t *testing.T) {
	doc := `{"images":[],"annotations":[],"categories":[{"id":1,"name":"lamp"}]}`

	if _, err := NewValidator(NewLabelSet("lamp", "desk"), false).Validate(parseDoc(t, doc)); err != nil {
		t.Errorf("Expected lamp to be permitted, got %v", err)
	}

	_, err := NewValidator(NewLabelSet("desk"), false).Validate(parseDoc(t, doc))
	if !errors.Is(err, ErrSchema) {
		t.Errorf("Expected schema error for lamp, got %v", err)
	}
}

func TestEmptyLabelSetPermitsNothing(t *testing.T) {
	for _, labels := range []LabelSet{nil, NewLabelSet()} {
		_, err := NewValidator(labels, false).Validate(parseDoc(t, sampleDoc))
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("Expected schema error for chair, got %v", err)
		}
		if schemaErr.Path != "categories[0].name" {
			t.Errorf("Expected path categories[0].name, got %s", schemaErr.Path)
		}
	}

	// Categories are still optional content.
	empty := `{"images":[],"annotations":[],"categories":[]}`
	if _, err := NewValidator(nil, false).Validate(parseDoc(t, empty)); err != nil {
		t.Errorf("Expected document without categories to pass, got %v", err)
	}
}

func TestDecodeAcceptsPlainFloatsAndInts(t *testing.T) {
	// encoding/json without UseNumber yields float64
	var floatDoc any
	if err := json.Unmarshal([]byte(sampleDoc), &floatDoc); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, err := Decode(floatDoc, DefaultLabels); err != nil {
		t.Errorf("Expected float64 document to decode, got %v", err)
	}

	// yaml.v3 yields int
	intDoc := map[string]any{
		"images":      []any{map[string]any{"id": 1, "file_name": "a.jpg"}},
		"annotations": []any{map[string]any{"image_id": 1, "bbox": []any{0, 0, 10, 10}, "category_id": uint8(5)}},
		"categories":  []any{map[string]any{"id": int64(5), "name": "chair", "supercategory": "furniture"}},
	}
	ds, err := Decode(intDoc, DefaultLabels)
	if err != nil {
		t.Fatalf("Expected int document to decode, got %v", err)
	}
	if ds.Annotations[0].CategoryID != 5 {
		t.Errorf("Expected category_id 5, got %d", ds.Annotations[0].CategoryID)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{"int", 3, 3, true},
		{"integral float", 4.0, 4, true},
		{"fractional float", 4.5, 0, false},
		{"json number", json.Number("12"), 12, true},
		{"json number with exponent", json.Number("1e2"), 100, true},
		{"json fractional number", json.Number("1.25"), 0, false},
		{"huge uint", uint64(1 << 63), 0, false},
		{"string", "3", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asInt(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestValidatorConcurrentUse(t *testing.T) {
	v := NewValidator(DefaultLabels, true)
	docs := []string{sampleDoc, `{"images":[],"annotations":[],"categories":[]}`}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			dec := json.NewDecoder(strings.NewReader(doc))
			dec.UseNumber()
			var parsed any
			if err := dec.Decode(&parsed); err != nil {
				errs <- err
				return
			}
			if _, err := v.Validate(parsed); err != nil {
				errs <- err
			}
		}(docs[i%len(docs)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&SchemaError{Path: "images"}, CodeSchema},
		{&DuplicateIDError{Kind: KindImage, ID: 1}, CodeDuplicateID},
		{&DanglingReferenceError{Field: "image_id", ID: 1}, CodeDanglingReference},
		{errors.New("boom"), ""},
	}

	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}
