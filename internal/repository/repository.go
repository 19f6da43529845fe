package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID without relations
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// FindWithRelations finds a task by ID with author and assignee loaded
	FindWithRelations(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves one page of tasks matching filter and the total match count
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update writes the given columns of task
	Update(ctx context.Context, task *models.Task, fields map[string]interface{}) error

	// Delete removes a task permanently
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks.
// Zero values mean "no filter".
type TaskFilter struct {
	Title       string
	AuthorID    *uint64
	AssigneeID  *uint64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	Order       string
	Pagination  utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by exact email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user ordered by ID
	List(ctx context.Context) ([]models.User, error)

	// ListExcept returns every user but the given one, ordered by ID
	ListExcept(ctx context.Context, id uint64) ([]models.User, error)

	// Exists reports whether a user with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)
}
