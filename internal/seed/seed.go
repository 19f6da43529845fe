// Package seed fills a database with demo users and tasks.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultUsers    = 200
	DefaultTasks    = 400
	DefaultPassword = "password123"

	batchSize = 100
)

var sampleTitles = []string{
	"Fix login bug",
	"Add onboarding flow",
	"Optimize database query",
	"Write API docs",
	"Implement caching layer",
	"Design landing page",
	"Refactor legacy module",
	"Prepare deployment pipeline",
	"Improve test coverage",
	"Research new feature",
}

var sampleDescriptions = []string{
	"High priority item coming from product.",
	"Coordinate with the frontend team.",
	"Needs review from security before release.",
	"Remember to add unit and e2e tests.",
	"Blocker for the next sprint.",
	"Sync with stakeholders for requirements.",
	"Document the changes thoroughly.",
	"Validate the flow with QA.",
}

var (
	ErrNotEnoughUsers  = errors.New("at least 2 users are needed to seed tasks")
	ErrInvalidCount    = errors.New("user and task counts must not be negative")
	ErrInvalidPassword = errors.New("password must be between 1 and 72 bytes")
)

// Options controls what Run creates
type Options struct {
	Users    int
	Tasks    int
	Password string
	// Reset deletes every task and user first
	Reset bool
	// Random defaults to services.DefaultRandomSource
	Random services.RandomSource
}

// Result reports how many rows Run created
type Result struct {
	Users int
	Tasks int
}

func (o Options) validate() error {
	if o.Users < 0 || o.Tasks < 0 {
		return ErrInvalidCount
	}
	if o.Tasks > 0 && o.Users < 2 {
		return ErrNotEnoughUsers
	}
	if o.Password == "" || len(o.Password) > constants.MaxPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// Run creates users user1@example.com..userN@example.com sharing one password,
// then tasks with a random author and a different random assignee.
// Everything happens in one transaction.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	random := opts.Random
	if random == nil {
		random = services.DefaultRandomSource
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(opts.Password), constants.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result := &Result{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Reset {
			if err := tx.Where("1 = 1").Delete(&models.Task{}).Error; err != nil {
				return fmt.Errorf("failed to delete tasks: %w", err)
			}
			if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
				return fmt.Errorf("failed to delete users: %w", err)
			}
		}

		if opts.Users == 0 {
			return nil
		}

		users := make([]models.User, opts.Users)
		for i := range users {
			users[i] = models.User{
				Email:        fmt.Sprintf("user%d@example.com", i+1),
				PasswordHash: string(hashedPassword),
			}
		}
		if err := tx.CreateInBatches(&users, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		result.Users = len(users)

		if opts.Tasks == 0 {
			return nil
		}

		tasks := make([]models.Task, opts.Tasks)
		for i := range tasks {
			authorIndex := random.IntN(len(users))
			assigneeIndex := random.IntN(len(users))
			if assigneeIndex == authorIndex {
				assigneeIndex = (assigneeIndex + 1) % len(users)
			}

			tasks[i] = models.Task{
				Title:      fmt.Sprintf("%s #%d", sampleTitles[random.IntN(len(sampleTitles))], i+1),
				AuthorID:   users[authorIndex].ID,
				AssigneeID: users[assigneeIndex].ID,
			}
			if random.IntN(10) < 7 {
				description := sampleDescriptions[random.IntN(len(sampleDescriptions))]
				tasks[i].Description = &description
			}
		}
		if err := tx.Omit("Author", "Assignee").CreateInBatches(&tasks, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create tasks: %w", err)
		}
		result.Tasks = len(tasks)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
