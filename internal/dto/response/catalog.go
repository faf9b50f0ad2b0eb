package response

import "theatre-booking/internal/data/entity"

type GenreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ActorResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type TheatreHallResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
	Capacity   int    `json:"capacity"`
}

// PlayListResponse flattens genres and actors to names.
type PlayListResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
}

type PlayDetailResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Genres      []GenreResponse `json:"genres"`
	Actors      []ActorResponse `json:"actors"`
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{ID: genre.ID.String(), Name: genre.Name}
}

func ActorToResponse(actor *entity.Actor) ActorResponse {
	return ActorResponse{
		ID:        actor.ID.String(),
		FirstName: actor.FirstName,
		LastName:  actor.LastName,
		FullName:  actor.FullName(),
	}
}

func HallToResponse(hall *entity.TheatreHall) TheatreHallResponse {
	return TheatreHallResponse{
		ID:         hall.ID.String(),
		Name:       hall.Name,
		Rows:       hall.Rows,
		SeatsInRow: hall.SeatsInRow,
		Capacity:   hall.Capacity(),
	}
}

func PlayToListResponse(play *entity.Play) PlayListResponse {
	resp := PlayListResponse{
		ID:          play.ID.String(),
		Title:       play.Title,
		Description: play.Description,
		Genres:      make([]string, len(play.Genres)),
		Actors:      make([]string, len(play.Actors)),
	}
	for i, g := range play.Genres {
		resp.Genres[i] = g.Name
	}
	for i, a := range play.Actors {
		resp.Actors[i] = a.FullName()
	}
	return resp
}

func PlayToDetailResponse(play *entity.Play) PlayDetailResponse {
	resp := PlayDetailResponse{
		ID:          play.ID.String(),
		Title:       play.Title,
		Description: play.Description,
		Genres:      make([]GenreResponse, len(play.Genres)),
		Actors:      make([]ActorResponse, len(play.Actors)),
	}
	for i, g := range play.Genres {
		resp.Genres[i] = GenreToResponse(g)
	}
	for i, a := range play.Actors {
		resp.Actors[i] = ActorToResponse(a)
	}
	return resp
}
