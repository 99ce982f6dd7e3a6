package coco

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Decode checks doc against the COCO detection shape and builds a Dataset.
//
// doc is the untyped result of decoding a JSON or YAML document. Rules run in
// document order and the first violation is returned as a *SchemaError.
// Fields the shape does not declare are ignored.
func Decode(doc any, labels LabelSet) (*Dataset, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &SchemaError{Path: "$", Expected: "object", Actual: describe(doc)}
	}

	images, err := requiredArray(root, "", "images")
	if err != nil {
		return nil, err
	}
	annotations, err := requiredArray(root, "", "annotations")
	if err != nil {
		return nil, err
	}
	categories, err := requiredArray(root, "", "categories")
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Images:      make([]Image, 0, len(images)),
		Annotations: make([]Annotation, 0, len(annotations)),
		Categories:  make([]Category, 0, len(categories)),
	}

	for i, raw := range images {
		img, err := decodeImage(raw, fmt.Sprintf("images[%d]", i))
		if err != nil {
			return nil, err
		}
		ds.Images = append(ds.Images, img)
	}

	for i, raw := range annotations {
		ann, err := decodeAnnotation(raw, fmt.Sprintf("annotations[%d]", i))
		if err != nil {
			return nil, err
		}
		ds.Annotations = append(ds.Annotations, ann)
	}

	for i, raw := range categories {
		cat, err := decodeCategory(raw, fmt.Sprintf("categories[%d]", i), labels)
		if err != nil {
			return nil, err
		}
		ds.Categories = append(ds.Categories, cat)
	}

	return ds, nil
}

func decodeImage(raw any, path string) (Image, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Image{}, err
	}
	id, err := requiredInt(obj, path, "id")
	if err != nil {
		return Image{}, err
	}
	name, err := requiredString(obj, path, "file_name")
	if err != nil {
		return Image{}, err
	}
	return Image{ID: id, FileName: name}, nil
}

func decodeAnnotation(raw any, path string) (Annotation, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Annotation{}, err
	}
	imageID, err := requiredInt(obj, path, "image_id")
	if err != nil {
		return Annotation{}, err
	}

	items, err := requiredArray(obj, path, "bbox")
	if err != nil {
		return Annotation{}, err
	}
	bboxPath := path + ".bbox"
	if len(items) != len(BBox{}) {
		return Annotation{}, &SchemaError{
			Path:     bboxPath,
			Expected: "array of exactly 4 integers",
			Actual:   fmt.Sprintf("array of %d items", len(items)),
		}
	}
	var box BBox
	for i, item := range items {
		n, ok := asInt(item)
		if !ok {
			return Annotation{}, &SchemaError{
				Path:     fmt.Sprintf("%s[%d]", bboxPath, i),
				Expected: "integer",
				Actual:   describe(item),
			}
		}
		box[i] = n
	}

	categoryID, err := requiredInt(obj, path, "category_id")
	if err != nil {
		return Annotation{}, err
	}
	return Annotation{ImageID: imageID, BBox: box, CategoryID: categoryID}, nil
}

func decodeCategory(raw any, path string, labels LabelSet) (Category, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Category{}, err
	}
	id, err := requiredInt(obj, path, "id")
	if err != nil {
		return Category{}, err
	}
	name, err := requiredString(obj, path, "name")
	if err != nil {
		return Category{}, err
	}
	if !labels.Contains(name) {
		return Category{}, &SchemaError{
			Path:     path + ".name",
			Expected: "one of [" + labels.String() + "]",
			Actual:   strconv.Quote(name),
		}
	}
	return Category{ID: id, Name: name}, nil
}

func fieldPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func asObject(raw any, path string) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &SchemaError{Path: path, Expected: "object", Actual: describe(raw)}
	}
	return obj, nil
}

func lookup(obj map[string]any, parent, key, expected string) (any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, &SchemaError{Path: fieldPath(parent, key), Expected: expected, Actual: "missing"}
	}
	return v, nil
}

func requiredArray(obj map[string]any, parent, key string) ([]any, error) {
	v, err := lookup(obj, parent, key, "array")
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Path: fieldPath(parent, key), Expected: "array", Actual: describe(v)}
	}
	return arr, nil
}

func requiredInt(obj map[string]any, parent, key string) (int64, error) {
	v, err := lookup(obj, parent, key, "integer")
	if err != nil {
		return 0, err
	}
	n, ok := asInt(v)
	if !ok {
		return 0, &SchemaError{Path: fieldPath(parent, key), Expected: "integer", Actual: describe(v)}
	}
	return n, nil
}

func requiredString(obj map[string]any, parent, key string) (string, error) {
	v, err := lookup(obj, parent, key, "string")
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Path: fieldPath(parent, key), Expected: "string", Actual: describe(v)}
	}
	return s, nil
}

// asInt accepts Go integers and numbers with an integral value. Decoders
// differ: encoding/json yields float64 or json.Number, yaml.v3 yields int.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

func uintToInt(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// describe renders the JSON type of v for error messages.
func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string " + strconv.Quote(x)
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case json.Number:
		return "number " + x.String()
	case float32, float64:
		return fmt.Sprintf("number %v", x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("integer %v", x)
	default:
		return fmt.Sprintf("%T", v)
	}
}
