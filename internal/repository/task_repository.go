package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID without relations
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindWithRelations finds a task by ID with author and assignee loaded
func (r *GormTaskRepository) FindWithRelations(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Assignee").
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves one page of tasks matching filter and the total match count
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(filterTasks(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if total == 0 {
		return tasks, 0, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(filterTasks(filter), orderTasks(filter), database.Paginate(filter.Pagination)).
		Preload("Author").
		Preload("Assignee").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update writes the given columns of task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(task).Updates(fields).Error
}

// Delete removes a task permanently
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// filterTasks applies every supplied filter as a logical AND
func filterTasks(filter TaskFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = database.ContainsFold("tasks.title", filter.Title)(db)
		if filter.AuthorID != nil {
			db = db.Where("tasks.author_id = ?", *filter.AuthorID)
		}
		if filter.AssigneeID != nil {
			db = db.Where("tasks.assignee_id = ?", *filter.AssigneeID)
		}
		if filter.CreatedFrom != nil {
			db = db.Where("tasks.created_at >= ?", *filter.CreatedFrom)
		}
		if filter.CreatedTo != nil {
			db = db.Where("tasks.created_at <= ?", *filter.CreatedTo)
		}
		return db
	}
}

// orderTasks sorts by the requested column with id as a stable tiebreak
func orderTasks(filter TaskFilter) func(db *gorm.DB) *gorm.DB {
	column := "created_at"
	if filter.SortBy == constants.SortByTitle {
		column = "title"
	}
	desc := filter.Order != constants.OrderAsc

	return func(db *gorm.DB) *gorm.DB {
		return db.
			Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: column}, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: "id"}, Desc: desc})
	}
}
