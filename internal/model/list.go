package model

import (
	"time"
)

type List struct {
	ID        string    `db:"id" json:"id"`
	BoardID   string    `db:"board_id" json:"boardId"`
	Title     string    `db:"title" json:"title"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Populated by BoardService.BoardWithLists, not stored on the row
	Tasks []*Task `db:"-" json:"tasks,omitempty"`
}
