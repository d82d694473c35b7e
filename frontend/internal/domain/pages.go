package frontend_domain

import (
	"html/template"

	"github.com/whimsyboard/whimsy/shared/domain"
)

// Board is a board ready for display.
type Board struct {
	domain.Board
	DescriptionHTML template.HTML
}

// Pin is a pin ready for display.
type Pin struct {
	domain.Pin
	DescriptionHTML template.HTML
	CaptionHTML     template.HTML
	TagsInput       string // tags joined for the edit form
}

type IndexPageData struct {
	Boards []*Board
	// BoardsError is set when the list could not be fetched; the page still renders.
	BoardsError string
}

type BoardsPageData struct {
	Boards      []*Board
	BoardsError string
}

type EditBoardPageData struct {
	Board *Board
}

type BoardPageData struct {
	Board *Board
	Pins  []*Pin
	// EditingPin is the pin whose inline edit form is open, if any.
	EditingPin domain.PinId
}

type SavePinPageData struct {
	// BoardID is the board the dialog was opened from.
	BoardID domain.BoardId
	Board   *Board
	Pin     *Pin
	// Boards are the save targets: the user's boards except the current one.
	Boards []domain.Board
}
