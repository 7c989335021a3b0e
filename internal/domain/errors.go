package domain

import "errors"

var (
	// ErrNotFound signals a missing catalog.
	ErrNotFound = errors.New("catalog not found")
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAlreadyExists signals a duplicate record id.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an invalid catalog schema.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidQuery signals a query that violates the engine contract.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSimulatorClosed signals use of a closed transfer simulator.
	ErrSimulatorClosed = errors.New("transfer simulator closed")
)
