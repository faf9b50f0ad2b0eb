// Package domain holds the seat ledger rules shared by the reservation
// engine, the hall editor and the listing endpoints.
package domain

import (
	"theatre-booking/internal/data/entity"

	"github.com/google/uuid"
)

// ValidateSeat checks a coordinate against the hall grid, rows first.
func ValidateSeat(row, seat int, hall *entity.TheatreHall) error {
	if row < 1 || row > hall.Rows {
		return &GeometryError{Field: "row", Value: row, Min: 1, Max: hall.Rows, HallAttr: "rows"}
	}
	if seat < 1 || seat > hall.SeatsInRow {
		return &GeometryError{Field: "seat", Value: seat, Min: 1, Max: hall.SeatsInRow, HallAttr: "seats_in_row"}
	}
	return nil
}

// AvailableCount is capacity minus sold. It goes negative when a hall was
// shrunk under existing tickets instead of failing.
func AvailableCount(capacity, sold int) int {
	return capacity - sold
}

// SeatClaim is one requested (performance, row, seat).
type SeatClaim struct {
	PerformanceID uuid.UUID
	Row           int
	Seat          int
}

// FirstDuplicate returns the index of the first claim that repeats an
// earlier one, or -1.
func FirstDuplicate(claims []SeatClaim) int {
	seen := make(map[SeatClaim]struct{}, len(claims))
	for i, c := range claims {
		if _, ok := seen[c]; ok {
			return i
		}
		seen[c] = struct{}{}
	}
	return -1
}
