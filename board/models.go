package board

import (
	"time"

	"github.com/zeptools/tablet-core/nullable"
)

// Header - one physical display board. Width/height are its slot grid
// dimensions and may stay unset.
type Header struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Width  nullable.Int `json:"width"`
	Height nullable.Int `json:"height"`
}

func (h *Header) GetID() int64 {
	return h.ID
}

func (h *Header) TargetFields() []any {
	return []any{
		&h.ID,
		&h.Name,
		&h.Width,
		&h.Height,
	}
}

// Slot - one occupied (or reserved empty) position on a board.
// Location is 1-based and unique per board; JobID is null for a
// reserved slot awaiting a print job.
type Slot struct {
	ID        int64        `json:"id"`
	BoardID   int64        `json:"board_id"`
	JobID     nullable.Int `json:"job_id"`
	Location  int64        `json:"location"`
	CreatedAt time.Time    `json:"created_at"`
}

func (s *Slot) GetID() int64 {
	return s.ID
}

func (s *Slot) TargetFields() []any {
	return []any{
		&s.ID,
		&s.BoardID,
		&s.JobID,
		&s.Location,
		&s.CreatedAt,
	}
}

// Placement - where a job sits on a board, with the derived grid row
// and column when the board width is known.
type Placement struct {
	BoardID   int64  `json:"board_id"`
	BoardName string `json:"board_name"`
	SlotID    int64  `json:"slot_id"`
	Location  int64  `json:"location"`
	// total occupied+reserved slots on the board
	TotalOnBoard int   `json:"total_on_board"`
	Row          int64 `json:"row,omitzero"`
	Col          int64 `json:"col,omitzero"`
}
