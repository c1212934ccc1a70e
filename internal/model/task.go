package model

import (
	"time"
)

type Task struct {
	ID          string    `db:"id" json:"id"`
	ListID      string    `db:"list_id" json:"listId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
