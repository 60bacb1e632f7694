package entity

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// DatastoreError wraps any failure talking to the relational store other than a miss.
type DatastoreError struct {
	Operation string
	Transient bool
	Err       error
}

func (e *DatastoreError) Error() string {
	return fmt.Sprintf("datastore %s: %v", e.Operation, e.Err)
}

func (e *DatastoreError) Unwrap() error {
	return e.Err
}

func IsDatastoreError(err error) bool {
	var dsErr *DatastoreError
	return errors.As(err, &dsErr)
}
