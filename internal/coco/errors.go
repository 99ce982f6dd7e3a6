package coco

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrSchema indicates the document does not have the declared shape.
	ErrSchema = errors.New("schema error")

	// ErrDuplicateID indicates two records in one id-space share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDanglingReference indicates an annotation points at a record that does not exist.
	ErrDanglingReference = errors.New("dangling reference")
)

// Error codes used in reports.
const (
	CodeSchema            = "schema"
	CodeDuplicateID       = "duplicate_id"
	CodeDanglingReference = "dangling_reference"
)

// SchemaError is a structural or type mismatch against the document shape.
type SchemaError struct {
	Path     string // e.g. "categories[0].name"
	Expected string
	Actual   string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s: expected %s", ErrSchema.Error(), e.Path, e.Expected)
	if e.Actual != "" {
		msg += ", got " + e.Actual
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Code returns the report code.
func (e *SchemaError) Code() string { return CodeSchema }

// IDKind names an id-space.
type IDKind string

const (
	KindImage    IDKind = "image"
	KindCategory IDKind = "category"
)

// DuplicateIDError reports a repeated id within one id-space.
type DuplicateIDError struct {
	Kind IDKind
	ID   int64
}

func (e *DuplicateIDError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s id %d appears more than once", ErrDuplicateID.Error(), e.Kind, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// Code returns the report code.
func (e *DuplicateIDError) Code() string { return CodeDuplicateID }

// DanglingReferenceError reports an annotation whose foreign key has no target.
type DanglingReferenceError struct {
	Index int    // position in annotations
	Field string // "image_id" or "category_id"
	ID    int64
}

func (e *DanglingReferenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: annotations[%d].%s references missing id %d", ErrDanglingReference.Error(), e.Index, e.Field, e.ID)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// Code returns the report code.
func (e *DanglingReferenceError) Code() string { return CodeDanglingReference }

// ErrorCode returns the report code for err, or "" if err is not a validation error.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
