package entity

type TheatreHall struct {
	Base
	Name       string `db:"name"`
	Rows       int    `db:"rows"`
	SeatsInRow int    `db:"seats_in_row"`
}

func (h *TheatreHall) Capacity() int {
	return h.Rows * h.SeatsInRow
}
