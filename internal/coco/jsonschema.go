package coco

import "math"

// JSONSchemaDraft is the dialect JSONSchema emits.
const JSONSchemaDraft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema describes the document shape accepted by Decode for the given
// labels. It covers shape only; id uniqueness and references are not
// expressible here and stay with CheckInvariants.
func JSONSchema(labels LabelSet) map[string]any {
	names := labels.Names()
	enum := make([]any, len(names))
	for i, n := range names {
		enum[i] = n
	}

	// Decode stores ids and boxes as int64.
	integer := map[string]any{
		"type":    "integer",
		"minimum": int64(math.MinInt64),
		"maximum": int64(math.MaxInt64),
	}

	return map[string]any{
		"$schema":  JSONSchemaDraft,
		"title":    "COCO detection dataset",
		"type":     "object",
		"required": []any{"images", "annotations", "categories"},
		"properties": map[string]any{
			"images": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "file_name"},
					"properties": map[string]any{
						"id":        integer,
						"file_name": map[string]any{"type": "string"},
					},
				},
			},
			"annotations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"image_id", "bbox", "category_id"},
					"properties": map[string]any{
						"image_id": integer,
						"bbox": map[string]any{
							"type":     "array",
							"items":    integer,
							"minItems": 4,
							"maxItems": 4,
						},
						"category_id": integer,
					},
				},
			},
			"categories": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "name"},
					"properties": map[string]any{
						"id":   integer,
						"name": map[string]any{"enum": enum},
					},
				},
			},
		},
	}
}
