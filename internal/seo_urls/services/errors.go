package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocked is returned when another reconciliation holds the refresh lock
var ErrLocked = errors.New("seo url refresh already in progress")

// StorageError wraps a failed store call
type StorageError struct {
	Op  string // search, count, upsert, delete
	ID  string // mapping ID or natural key, if known
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("seo url storage %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("seo url storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IntrospectionError is reported when a controller could not be inspected
type IntrospectionError struct {
	Controller string
	Err        error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("failed to inspect controller %s: %v", e.Controller, e.Err)
}

func (e *IntrospectionError) Unwrap() error {
	return e.Err
}

// ValidationError lists the required fields missing from an admin submission
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing fields in request: " + strings.Join(e.Fields, ", ")
}

func storageErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, ID: id, Err: err}
}
