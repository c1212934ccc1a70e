package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/model"
)

var (
	ErrBoardNotFound = errors.New("board not found")
)

type BoardRepository interface {
	Create(board *model.Board) error
	ByID(id string) (*model.Board, error)
	OwnerID(id string) (string, error)
	ByOwner(ownerID string) ([]*model.Board, error)
	Update(board *model.Board) error
	Delete(id string) error
}

type boardRepository struct {
	db *sqlx.DB
}

func NewBoardRepository(db *sqlx.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) Create(board *model.Board) error {
	query := `INSERT INTO boards (id, owner_id, title, description, background_color, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		board.ID,
		board.OwnerID,
		board.Title,
		board.Description,
		board.BackgroundColor,
		board.CreatedAt,
		board.UpdatedAt,
	)
	return err
}

func (r *boardRepository) ByID(id string) (*model.Board, error) {
	board := &model.Board{}
	query := `SELECT * FROM boards WHERE id = $1`

	err := r.db.Get(board, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrBoardNotFound
	}

	return board, err
}

// OwnerID fetches only the owner column. The ownership guard runs on every
// by-id request, so it avoids loading the full row.
func (r *boardRepository) OwnerID(id string) (string, error) {
	var ownerID string
	query := `SELECT owner_id FROM boards WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return "", ErrBoardNotFound
	}

	return ownerID, err
}

func (r *boardRepository) ByOwner(ownerID string) ([]*model.Board, error) {
	boards := []*model.Board{}
	query := `SELECT * FROM boards WHERE owner_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&boards, query, ownerID)
	if err != nil {
		return nil, err
	}

	return boards, nil
}

func (r *boardRepository) Update(board *model.Board) error {
	query := `UPDATE boards
	          SET title = $1, description = $2, background_color = $3, updated_at = $4
	          WHERE id = $5`

	result, err := r.db.Exec(query,
		board.Title,
		board.Description,
		board.BackgroundColor,
		time.Now(),
		board.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrBoardNotFound
	}

	return nil
}

func (r *boardRepository) Delete(id string) error {
	query := `DELETE FROM boards WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrBoardNotFound
	}

	return nil
}
