package coco

// Validator runs the shape rules and the invariant checks over a decoded
// document. Only names in Labels are permitted; an empty set permits none.
// A Validator holds no state between calls and may be shared across
// goroutines.
type Validator struct {
	Labels       LabelSet
	CategoryRefs bool
}

// NewValidator creates a validator for the given labels.
func NewValidator(labels LabelSet, categoryRefs bool) *Validator {
	return &Validator{Labels: labels, CategoryRefs: categoryRefs}
}

// Validate decodes doc and checks its invariants. On failure the returned
// error is a *SchemaError, *DuplicateIDError or *DanglingReferenceError.
func (v *Validator) Validate(doc any) (*Dataset, error) {
	ds, err := Decode(doc, v.Labels)
	if err != nil {
		return nil, err
	}
	if err := CheckInvariants(ds, CheckOptions{CategoryRefs: v.CategoryRefs}); err != nil {
		return nil, err
	}
	return ds, nil
}
