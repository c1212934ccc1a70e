package model

import (
	"time"
)

type Board struct {
	ID              string    `db:"id" json:"id"`
	OwnerID         string    `db:"owner_id" json:"ownerId"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description"`
	BackgroundColor *string   `db:"background_color" json:"backgroundColor"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
