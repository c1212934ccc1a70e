package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/model"
)

var (
	ErrListNotFound = errors.New("list not found")
)

type ListRepository interface {
	Create(list *model.List) error
	ByID(id string) (*model.List, error)
	ByBoard(boardID string) ([]*model.List, error)
	MaxPosition(boardID string) (int, error)
	UpdateTitle(id, title string) error
	UpdatePosition(id string, position int) error
	Delete(id string) error
}

type listRepository struct {
	db *sqlx.DB
}

func NewListRepository(db *sqlx.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(list *model.List) error {
	query := `INSERT INTO lists (id, board_id, title, position, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		list.ID,
		list.BoardID,
		list.Title,
		list.Position,
		list.CreatedAt,
	)
	return err
}

func (r *listRepository) ByID(id string) (*model.List, error) {
	list := &model.List{}
	query := `SELECT * FROM lists WHERE id = $1`

	err := r.db.Get(list, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrListNotFound
	}

	return list, err
}

func (r *listRepository) ByBoard(boardID string) ([]*model.List, error) {
	lists := []*model.List{}
	query := `SELECT * FROM lists WHERE board_id = $1 ORDER BY position ASC`

	err := r.db.Select(&lists, query, boardID)
	if err != nil {
		return nil, err
	}

	return lists, nil
}

func (r *listRepository) MaxPosition(boardID string) (int, error) {
	var max sql.NullInt64
	query := `SELECT MAX(position) FROM lists WHERE board_id = $1`

	err := r.db.QueryRow(query, boardID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}

	return int(max.Int64), nil
}

func (r *listRepository) UpdateTitle(id, title string) error {
	query := `UPDATE lists SET title = $1 WHERE id = $2`

	result, err := r.db.Exec(query, title, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListNotFound
	}

	return nil
}

func (r *listRepository) UpdatePosition(id string, position int) error {
	query := `UPDATE lists SET position = $1 WHERE id = $2`

	result, err := r.db.Exec(query, position, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListNotFound
	}

	return nil
}

func (r *listRepository) Delete(id string) error {
	query := `DELETE FROM lists WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListNotFound
	}

	return nil
}
