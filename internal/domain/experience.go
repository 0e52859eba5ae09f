package domain

// ExperienceTag labels the kind of stay a hotel offers ("Surfing", "Tea estate").
type ExperienceTag struct {
	ID          int64
	Label       *string
	Description *string
	CoverImage  *string
}
