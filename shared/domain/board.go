package domain

import (
	"bytes"
	"encoding/json"
)

// Board is a named collection of pins. Ownership is implied by the token
// that fetched it.
type Board struct {
	Id          BoardId          `json:"_id"`
	Name        BoardName        `json:"name"`
	Description BoardDescription `json:"description,omitempty"`
}

// BoardRef is a pin's owning board. The API sends either the board id or the
// populated board object.
type BoardRef struct {
	Id   BoardId
	Name BoardName
}

func (b *BoardRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = BoardRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Id)
	}
	var board Board
	if err := json.Unmarshal(data, &board); err != nil {
		return err
	}
	*b = BoardRef{Id: board.Id, Name: board.Name}
	return nil
}

func (b BoardRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Id)
}
