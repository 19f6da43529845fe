package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	random   RandomSource
}

// NewTaskService creates a new TaskService. A nil random source falls back to
// DefaultRandomSource.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, random RandomSource) *TaskService {
	if random == nil {
		random = DefaultRandomSource
	}
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		random:   random,
	}
}

// CreateTaskInput represents input for creating a task. A nil AssigneeID
// picks a random user other than the author.
type CreateTaskInput struct {
	AuthorID    uint64  `label:"authorId" validate:"required"`
	Title       string  `label:"title" validate:"required,max=200"`
	Description *string `label:"description" validate:"omitnil,max=2000"`
	AssigneeID  *uint64 `label:"assigneeId" validate:"omitnil,gte=1"`
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged and an empty title is stored as given. ClearDescription sets the
// description to null.
type UpdateTaskInput struct {
	Title            *string `label:"title" validate:"omitnil,max=200"`
	Description      *string `label:"description" validate:"omitnil,max=2000"`
	ClearDescription bool
	AssigneeID       *uint64 `label:"assigneeId" validate:"omitnil,gte=1"`
}

// ListTasksInput represents filters for listing tasks. Zero Page, Limit,
// SortBy and Order take their defaults.
type ListTasksInput struct {
	Page       int        `label:"page" validate:"gte=0"`
	Limit      int        `label:"limit" validate:"gte=0,lte=100"`
	Title      string     `label:"title"`
	AuthorID   *uint64    `label:"authorId" validate:"omitnil,gte=1"`
	AssigneeID *uint64    `label:"assigneeId" validate:"omitnil,gte=1"`
	DateFrom   *time.Time `label:"dateFrom"`
	DateTo     *time.Time `label:"dateTo"`
	SortBy     string     `label:"sortBy" validate:"omitempty,oneof=createdAt title"`
	Order      string     `label:"order" validate:"omitempty,oneof=asc desc"`
}

// TaskListResult is one page of tasks plus the total number of matches
type TaskListResult struct {
	Tasks      []models.Task
	Total      int64
	Pagination utils.PaginationParams
}

// Create creates a task and returns it with author and assignee loaded
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	assigneeID, err := s.resolveAssignee(ctx, input.AuthorID, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    input.AuthorID,
		AssigneeID:  assigneeID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.FindOne(ctx, task.ID)
}

// FindAll returns the requested page of tasks matching every supplied filter
func (s *TaskService) FindAll(ctx context.Context, input ListTasksInput) (*TaskListResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	page := input.Page
	if page == 0 {
		page = constants.MinPage
	}
	limit := input.Limit
	if limit == 0 {
		limit = constants.DefaultPageSize
	}
	params, err := utils.NewPaginationParams(page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	filter := repository.TaskFilter{
		Title:      input.Title,
		AuthorID:   input.AuthorID,
		AssigneeID: input.AssigneeID,
		SortBy:     input.SortBy,
		Order:      input.Order,
		Pagination: params,
	}
	if filter.SortBy == "" {
		filter.SortBy = constants.SortByCreatedAt
	}
	if filter.Order == "" {
		filter.Order = constants.OrderDesc
	}
	if input.DateFrom != nil {
		from := input.DateFrom.UTC()
		filter.CreatedFrom = &from
	}
	if input.DateTo != nil {
		to := input.DateTo.UTC()
		filter.CreatedTo = &to
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskListResult{
		Tasks:      tasks,
		Total:      total,
		Pagination: params,
	}, nil
}

// FindOne returns a task with author and assignee loaded
func (s *TaskService) FindOne(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Update applies the supplied fields to a task. Only the author may update it.
func (s *TaskService) Update(ctx context.Context, id, requesterID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	task, err := s.findOwnedTask(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.ClearDescription {
		fields["description"] = nil
	} else if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.AssigneeID != nil && *input.AssigneeID != task.AssigneeID {
		if err := s.checkAssignee(ctx, task.AuthorID, *input.AssigneeID); err != nil {
			return nil, err
		}
		fields["assignee_id"] = *input.AssigneeID
	}

	if err := s.taskRepo.Update(ctx, task, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.FindOne(ctx, id)
}

// Remove deletes a task and returns its last state. Only the author may delete it.
func (s *TaskService) Remove(ctx context.Context, id, requesterID uint64) (*models.Task, error) {
	task, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.AuthorID != requesterID {
		return nil, ErrNotTaskAuthor
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

// findOwnedTask loads a task and checks that requesterID is its author
func (s *TaskService) findOwnedTask(ctx context.Context, id, requesterID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.AuthorID != requesterID {
		return nil, ErrNotTaskAuthor
	}
	return task, nil
}

// resolveAssignee validates an explicit assignee or picks a random other user
func (s *TaskService) resolveAssignee(ctx context.Context, authorID uint64, assigneeID *uint64) (uint64, error) {
	if assigneeID != nil {
		if err := s.checkAssignee(ctx, authorID, *assigneeID); err != nil {
			return 0, err
		}
		return *assigneeID, nil
	}

	candidates, err := s.userRepo.ListExcept(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignee candidates: %w", err)
	}
	if len(candidates) == 0 {
		return 0, ErrNoAssigneeCandidates
	}

	return candidates[s.random.IntN(len(candidates))].ID, nil
}

// checkAssignee rejects self-assignment and unknown users
func (s *TaskService) checkAssignee(ctx context.Context, authorID, assigneeID uint64) error {
	if assigneeID == authorID {
		return ErrSelfAssignment
	}

	exists, err := s.userRepo.Exists(ctx, assigneeID)
	if err != nil {
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	if !exists {
		return ErrAssigneeNotFound
	}
	return nil
}
