package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalid    = errors.New("validation failed")
	ErrReferenced = errors.New("referenced by dependent records")
	ErrDuplicate  = errors.New("duplicate value")
)

// NonFieldErrors is the key used for messages that concern the record as a whole.
const NonFieldErrors = "non_field_errors"

// ValidationError lists every offending field of a rejected write.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns nil when nothing was recorded, so callers can build one up unconditionally.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// ReferenceError is returned when a delete is blocked by protected dependents.
type ReferenceError struct {
	Entity    string
	ID        int64
	Dependent string
}

func (e *ReferenceError) Error() string {
	subject := e.Entity
	if e.ID != 0 {
		subject = fmt.Sprintf("%s %d", e.Entity, e.ID)
	}
	if e.Dependent == "" {
		return subject + " is still referenced"
	}
	return subject + " is still referenced by " + e.Dependent
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReferenced }

// UniqueError is returned when a write collides with a unique column.
type UniqueError struct {
	Field string
	Value string
}

func (e *UniqueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s must be unique", e.Field)
	}
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *UniqueError) Is(target error) bool { return target == ErrDuplicate }
