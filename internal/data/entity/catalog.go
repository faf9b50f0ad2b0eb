package entity

type Genre struct {
	BaseSimple
	Name string `db:"name"`
}

type Actor struct {
	BaseSimple
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

func (a *Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Play struct {
	Base
	Title       string `db:"title"`
	Description string `db:"description"`

	// loaded on demand
	Actors []*Actor
	Genres []*Genre
}
