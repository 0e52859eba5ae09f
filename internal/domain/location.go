package domain

type Country struct {
	ID   int64
	Name string
	Code string
}

type City struct {
	ID        int64
	CountryID *int64
	Name      *string
}
