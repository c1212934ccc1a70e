package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

type TaskRepository interface {
	Create(task *model.Task) error
	ByID(id string) (*model.Task, error)
	ByList(listID string) ([]*model.Task, error)
	MaxPosition(listID string) (int, error)
	Update(task *model.Task) error
	Delete(id string) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	query := `INSERT INTO tasks (id, list_id, title, description, position, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		task.ID,
		task.ListID,
		task.Title,
		task.Description,
		task.Position,
		task.CreatedAt,
	)
	return err
}

func (r *taskRepository) ByID(id string) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT * FROM tasks WHERE id = $1`

	err := r.db.Get(task, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

func (r *taskRepository) ByList(listID string) ([]*model.Task, error) {
	tasks := []*model.Task{}
	query := `SELECT * FROM tasks WHERE list_id = $1 ORDER BY position ASC`

	err := r.db.Select(&tasks, query, listID)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) MaxPosition(listID string) (int, error) {
	var max sql.NullInt64
	query := `SELECT MAX(position) FROM tasks WHERE list_id = $1`

	err := r.db.QueryRow(query, listID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}

	return int(max.Int64), nil
}

func (r *taskRepository) Update(task *model.Task) error {
	query := `UPDATE tasks
	          SET list_id = $1, title = $2, description = $3, position = $4
	          WHERE id = $5`

	result, err := r.db.Exec(query,
		task.ListID,
		task.Title,
		task.Description,
		task.Position,
		task.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) Delete(id string) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}
