package domain

import (
	"errors"
	"fmt"

	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrEmptyBatch    = errors.New("reservation must contain at least one ticket")
	ErrHallShrink    = errors.New("theatre hall geometry would orphan sold tickets")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
)

const (
	ReasonEmptyBatch = "empty_batch"
	ReasonNotFound   = "not_found"
	ReasonInvalid    = "invalid"
)

// GeometryError reports a row or seat outside the hall grid.
type GeometryError struct {
	Field    string // "row" or "seat"
	Value    int
	Min      int
	Max      int
	HallAttr string // "rows" or "seats_in_row"
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s number must be in available range: (1, %s): (%d, %d)",
		e.Field, e.HallAttr, e.Min, e.Max)
}

// ConflictError reports a (performance, row, seat) that is already sold or
// requested twice in one batch. Index is the offending ticket position, -1
// when unknown.
type ConflictError struct {
	Index         int
	PerformanceID uuid.UUID
	Row           int
	Seat          int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat already taken: performance %s, row %d, seat %d",
		e.PerformanceID, e.Row, e.Seat)
}

// ValidationError is a malformed request shape. Index is -1 when the error
// concerns the batch as a whole.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Index >= 0 {
		return fmt.Sprintf("validation failed: tickets[%d].%s: %s", e.Index, e.Field, msg)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewEmptyBatchError is returned for a reservation without tickets.
func NewEmptyBatchError() *ValidationError {
	return &ValidationError{Index: -1, Field: "tickets", Reason: ReasonEmptyBatch, Err: ErrEmptyBatch}
}

// NewInvalidError marks a single malformed input such as a path id.
func NewInvalidError(field string, err error) *ValidationError {
	return &ValidationError{Index: -1, Field: field, Reason: ReasonInvalid, Err: err}
}

// RequestError carries the validator output for a whole request body.
type RequestError struct {
	Fields map[string]string
}

func (e *RequestError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

// TicketError ties an error to a position in the reservation batch.
type TicketError struct {
	Index int
	Err   error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("tickets[%d]: %v", e.Index, e.Err)
}

func (e *TicketError) Unwrap() error { return e.Err }

// FieldErrors renders a core error as field -> message for API clients.
func FieldErrors(err error) map[string]string {
	var (
		requestErr  *RequestError
		ticketErr   *TicketError
		geomErr     *GeometryError
		conflictErr *ConflictError
		validErr    *ValidationError
	)

	switch {
	case errors.As(err, &requestErr):
		return requestErr.Fields
	case errors.As(err, &ticketErr) && errors.As(ticketErr.Err, &geomErr):
		return map[string]string{
			fmt.Sprintf("tickets[%d].%s", ticketErr.Index, geomErr.Field): geomErr.Error(),
		}
	case errors.As(err, &conflictErr):
		key := "tickets"
		if conflictErr.Index >= 0 {
			key = fmt.Sprintf("tickets[%d]", conflictErr.Index)
		}
		return map[string]string{key: conflictErr.Error()}
	case errors.As(err, &validErr):
		key := validErr.Field
		if validErr.Index >= 0 {
			key = fmt.Sprintf("tickets[%d].%s", validErr.Index, validErr.Field)
		}
		msg := validErr.Reason
		if validErr.Err != nil {
			msg = validErr.Err.Error()
		}
		return map[string]string{key: msg}
	case errors.As(err, &geomErr):
		return map[string]string{geomErr.Field: geomErr.Error()}
	}
	return nil
}
