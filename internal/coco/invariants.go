package coco

// CheckOptions selects optional invariant checks.
type CheckOptions struct {
	// CategoryRefs also requires every annotation.category_id to name an
	// existing category.
	CategoryRefs bool
}

// CheckInvariants verifies the cross-record rules a shape check cannot
// express. It returns the first violation, checking image id uniqueness,
// category id uniqueness, then annotation references.
func CheckInvariants(ds *Dataset, opts CheckOptions) error {
	imageIDs := make(map[int64]struct{}, len(ds.Images))
	for _, img := range ds.Images {
		if _, seen := imageIDs[img.ID]; seen {
			return &DuplicateIDError{Kind: KindImage, ID: img.ID}
		}
		imageIDs[img.ID] = struct{}{}
	}

	categoryIDs := make(map[int64]struct{}, len(ds.Categories))
	for _, cat := range ds.Categories {
		if _, seen := categoryIDs[cat.ID]; seen {
			return &DuplicateIDError{Kind: KindCategory, ID: cat.ID}
		}
		categoryIDs[cat.ID] = struct{}{}
	}

	for i, ann := range ds.Annotations {
		if _, ok := imageIDs[ann.ImageID]; !ok {
			return &DanglingReferenceError{Index: i, Field: "image_id", ID: ann.ImageID}
		}
	}

	if opts.CategoryRefs {
		for i, ann := range ds.Annotations {
			if _, ok := categoryIDs[ann.CategoryID]; !ok {
				return &DanglingReferenceError{Index: i, Field: "category_id", ID: ann.CategoryID}
			}
		}
	}

	return nil
}
