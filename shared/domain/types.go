package domain

type (
	Email    = string
	Password = string
	Token    = string

	BoardId          = string
	BoardName        = string
	BoardDescription = string

	PinId    = string
	PinTitle = string
	ImageURL = string

	// Tags are normalized: lower-case, no leading '#', no duplicates.
	Tags = []string
)
