package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kongden/taskboard/internal/model"
	"github.com/kongden/taskboard/internal/repository"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrListNotFound  = errors.New("list not found")
	ErrTaskNotFound  = errors.New("task not found")
	ErrForbidden     = errors.New("forbidden")
)

// BoardService wraps board, list and task persistence behind the ownership
// guard. Every by-id operation checks ownership before it reads or mutates
// anything; lists and tasks inherit ownership through their board.
type BoardService struct {
	boards repository.BoardRepository
	lists  repository.ListRepository
	tasks  repository.TaskRepository
}

func NewBoardService(
	boards repository.BoardRepository,
	lists repository.ListRepository,
	tasks repository.TaskRepository,
) *BoardService {
	return &BoardService{
		boards: boards,
		lists:  lists,
		tasks:  tasks,
	}
}

// CheckOwnership confirms exclusive ownership of a board. A nonexistent
// board is reported as ErrBoardNotFound, never as ErrForbidden: absence
// always wins over the ownership verdict.
func (s *BoardService) CheckOwnership(boardID, userID string) error {
	ownerID, err := s.boards.OwnerID(boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to check ownership: %w", err)
	}

	if ownerID != userID {
		return ErrForbidden
	}

	return nil
}

func (s *BoardService) Create(ownerID, title, description, backgroundColor string) (*model.Board, error) {
	now := time.Now()
	board := &model.Board{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if description != "" {
		board.Description = &description
	}
	if backgroundColor != "" {
		board.BackgroundColor = &backgroundColor
	}

	err := s.boards.Create(board)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

func (s *BoardService) Boards(ownerID string) ([]*model.Board, error) {
	return s.boards.ByOwner(ownerID)
}

// BoardWithLists returns the board with its lists and their tasks, both
// position-ordered.
func (s *BoardService) BoardWithLists(boardID, userID string) (*model.Board, []*model.List, error) {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return nil, nil, err
	}

	board, err := s.boards.ByID(boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return nil, nil, ErrBoardNotFound
		}
		return nil, nil, err
	}

	lists, err := s.lists.ByBoard(boardID)
	if err != nil {
		return nil, nil, err
	}

	for _, list := range lists {
		tasks, err := s.tasks.ByList(list.ID)
		if err != nil {
			return nil, nil, err
		}
		list.Tasks = tasks
	}

	return board, lists, nil
}

func (s *BoardService) Update(boardID, userID, title, description, backgroundColor string) (*model.Board, error) {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return nil, err
	}

	board, err := s.boards.ByID(boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}

	if title != "" {
		board.Title = title
	}
	if description != "" {
		board.Description = &description
	}
	if backgroundColor != "" {
		board.BackgroundColor = &backgroundColor
	}
	board.UpdatedAt = time.Now()

	err = s.boards.Update(board)
	if err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

func (s *BoardService) Delete(boardID, userID string) error {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return err
	}

	// Foreign key CASCADE deletes the board's lists and their tasks
	err = s.boards.Delete(boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to delete board: %w", err)
	}

	return nil
}

func (s *BoardService) CreateList(boardID, userID, title string) (*model.List, error) {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return nil, err
	}

	max, err := s.lists.MaxPosition(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list position: %w", err)
	}

	list := &model.List{
		ID:        uuid.New().String(),
		BoardID:   boardID,
		Title:     title,
		Position:  max + 1,
		CreatedAt: time.Now(),
	}

	err = s.lists.Create(list)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return list, nil
}

// listOnBoard resolves a list and confirms it belongs to the given board.
// A list that exists under some other board is not found from this board's
// point of view.
func (s *BoardService) listOnBoard(boardID, listID string) (*model.List, error) {
	list, err := s.lists.ByID(listID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	if list.BoardID != boardID {
		return nil, ErrListNotFound
	}

	return list, nil
}

func (s *BoardService) RenameList(boardID, listID, userID, title string) (*model.List, error) {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.listOnBoard(boardID, listID)
	if err != nil {
		return nil, err
	}

	err = s.lists.UpdateTitle(listID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to rename list: %w", err)
	}

	list.Title = title
	return list, nil
}

// ReorderLists persists the given ordering. Ids not on the board are
// rejected before any position is written.
func (s *BoardService) ReorderLists(boardID, userID string, listIDs []string) error {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return err
	}

	for _, id := range listIDs {
		_, err := s.listOnBoard(boardID, id)
		if err != nil {
			return err
		}
	}

	for i, id := range listIDs {
		err := s.lists.UpdatePosition(id, i)
		if err != nil {
			return fmt.Errorf("failed to reorder lists: %w", err)
		}
	}

	return nil
}

func (s *BoardService) DeleteList(boardID, listID, userID string) error {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return err
	}

	_, err = s.listOnBoard(boardID, listID)
	if err != nil {
		return err
	}

	return s.lists.Delete(listID)
}

func (s *BoardService) CreateTask(boardID, listID, userID, title, description string) (*model.Task, error) {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return nil, err
	}

	_, err = s.listOnBoard(boardID, listID)
	if err != nil {
		return nil, err
	}

	max, err := s.tasks.MaxPosition(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task position: %w", err)
	}

	task := &model.Task{
		ID:        uuid.New().String(),
		ListID:    listID,
		Title:     title,
		Position:  max + 1,
		CreatedAt: time.Now(),
	}
	if description != "" {
		task.Description = &description
	}

	err = s.tasks.Create(task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// taskOnBoard resolves a task and confirms its list belongs to the board.
func (s *BoardService) taskOnBoard(boardID, taskID string) (*model.Task, error) {
	task, err := s.tasks.ByID(taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	_, err = s.listOnBoard(boardID, task.ListID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *BoardService) UpdateTask(boardID, taskID, userID, title, description string) (*model.Task, error) {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskOnBoard(boardID, taskID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		task.Title = title
	}
	if description != "" {
		task.Description = &description
	}

	err = s.tasks.Update(task)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

func (s *BoardService) DeleteTask(boardID, taskID, userID string) error {
	err := s.CheckOwnership(boardID, userID)
	if err != nil {
		return err
	}

	_, err = s.taskOnBoard(boardID, taskID)
	if err != nil {
		return err
	}

	return s.tasks.Delete(taskID)
}
