package domain

// Pin is an image entry with metadata. It belongs to one board; saving it to
// another board is an API-side association.
type Pin struct {
	Id          PinId    `json:"_id"`
	Title       PinTitle `json:"title"`
	ImageURL    ImageURL `json:"imageUrl"`
	Description string   `json:"description,omitempty"`
	Caption     string   `json:"caption,omitempty"`
	Tags        Tags     `json:"tags,omitempty"`
	Board       BoardRef `json:"board"`
}

// PendingImage is an uploaded file that passed validation and waits to be
// sent to the image host.
type PendingImage struct {
	Filename string
	MimeType string
	Width    int
	Height   int
	Data     []byte
}
