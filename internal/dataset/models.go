package dataset

import "github.com/lehigh-university-libraries/annotcheck/internal/coco"

// AnnotationRow is one annotation joined with its image and category, the
// flat layout written by the exporters.
type AnnotationRow struct {
	ImageID      int64  `json:"image_id" parquet:"image_id"`
	FileName     string `json:"file_name" parquet:"file_name"`
	CategoryID   int64  `json:"category_id" parquet:"category_id"`
	CategoryName string `json:"category_name" parquet:"category_name"`
	X            int64  `json:"x" parquet:"x"`
	Y            int64  `json:"y" parquet:"y"`
	Width        int64  `json:"width" parquet:"width"`
	Height       int64  `json:"height" parquet:"height"`
}

// Area returns the box area in pixels.
func (r *AnnotationRow) Area() int64 {
	return r.Width * r.Height
}

// Flatten joins every annotation of ds with its image file name and category
// name, in annotation order. Unknown categories get an empty name.
func Flatten(ds *coco.Dataset) []AnnotationRow {
	files := ds.FileNames()
	names := ds.CategoryNames()

	rows := make([]AnnotationRow, 0, len(ds.Annotations))
	for _, ann := range ds.Annotations {
		rows = append(rows, AnnotationRow{
			ImageID:      ann.ImageID,
			FileName:     files[ann.ImageID],
			CategoryID:   ann.CategoryID,
			CategoryName: names[ann.CategoryID],
			X:            ann.BBox[0],
			Y:            ann.BBox[1],
			Width:        ann.BBox[2],
			Height:       ann.BBox[3],
		})
	}
	return rows
}
