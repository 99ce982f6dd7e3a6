package coco

// Category is an object class.
type Category struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Image is one image in the dataset.
type Image struct {
	ID       int64  `json:"id" yaml:"id"`
	FileName string `json:"file_name" yaml:"file_name"`
}

// BBox is [x, y, width, height] in pixels.
type BBox [4]int64

// Annotation places one object of a category on an image.
type Annotation struct {
	ImageID    int64 `json:"image_id" yaml:"image_id"`
	BBox       BBox  `json:"bbox" yaml:"bbox"`
	CategoryID int64 `json:"category_id" yaml:"category_id"`
}

// Dataset is a COCO detection dataset. It is built once by Decode and not
// modified afterwards.
type Dataset struct {
	Images      []Image      `json:"images" yaml:"images"`
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
	Categories  []Category   `json:"categories" yaml:"categories"`
}

// CategoryNames maps category id to name. Later duplicates win; callers
// should only use it on a dataset that passed CheckInvariants.
func (d *Dataset) CategoryNames() map[int64]string {
	names := make(map[int64]string, len(d.Categories))
	for _, c := range d.Categories {
		names[c.ID] = c.Name
	}
	return names
}

// FileNames maps image id to file name.
func (d *Dataset) FileNames() map[int64]string {
	files := make(map[int64]string, len(d.Images))
	for _, img := range d.Images {
		files[img.ID] = img.FileName
	}
	return files
}
