package request

type GenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type ActorRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=255"`
	LastName  string `json:"last_name" validate:"required,min=1,max=255"`
}

type TheatreHallRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Rows       int    `json:"rows" validate:"required,min=1"`
	SeatsInRow int    `json:"seats_in_row" validate:"required,min=1"`
}

type PlayRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description"`
	ActorIDs    []string `json:"actors" validate:"omitempty,dive,uuid"`
	GenreIDs    []string `json:"genres" validate:"omitempty,dive,uuid"`
}

// PlayQuery holds the play listing filters. Genres and Actors are
// comma-separated id lists.
type PlayQuery struct {
	Title  string `validate:"omitempty,max=255"`
	Genres string
	Actors string
	PaginatedRequest
}
