package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), NewGormConfig(logger.Discard))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))

	require.True(t, db.Migrator().HasTable(&models.User{}))
	require.True(t, db.Migrator().HasTable(&models.Task{}))
	for _, name := range []string{"idx_tasks_author_id", "idx_tasks_assignee_id", "idx_tasks_created_at", "idx_tasks_title"} {
		require.True(t, db.Migrator().HasIndex("tasks", name), name)
	}

	// Running twice must not fail on existing indexes
	require.NoError(t, Migrate(db))
}

func TestNewGormConfig_UsesUTC(t *testing.T) {
	cfg := NewGormConfig(logger.Discard)
	require.Equal(t, "UTC", cfg.NowFunc().Location().String())
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		cfg := config.Defaults()
		cfg.DBDriver = driver

		d, err := Dialector(cfg)
		require.NoError(t, err)
		require.Equal(t, driver, d.Name())
	}

	cfg := config.Defaults()
	cfg.DBDriver = "oracle"
	_, err := Dialector(cfg)
	require.Error(t, err)
}

func TestPaginate(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, db.Create(&models.User{Email: email, PasswordHash: "hash"}).Error)
	}

	params, err := utils.NewPaginationParams(2, 2)
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, db.Order("id ASC").Scopes(Paginate(params)).Find(&users).Error)
	require.Len(t, users, 1)
	require.Equal(t, "c@x.com", users[0].Email)
}

func TestPaginate_ZeroLimitIsUnbounded(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, db.Create(&models.User{Email: email, PasswordHash: "hash"}).Error)
	}

	var users []models.User
	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{})).Find(&users).Error)
	require.Len(t, users, 3)
}

func TestContainsFold(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	for _, email := range []string{"Alice@x.com", "bob_smith@x.com", "bobXsmith@x.com", "100%@x.com"} {
		require.NoError(t, db.Create(&models.User{Email: email, PasswordHash: "hash"}).Error)
	}

	cases := map[string][]string{
		"ALICE":  {"Alice@x.com"},
		"b_s":    {"bob_smith@x.com"},
		"0%":     {"100%@x.com"},
		"":       {"Alice@x.com", "bob_smith@x.com", "bobXsmith@x.com", "100%@x.com"},
		"nobody": {},
	}
	for term, want := range cases {
		var users []models.User
		require.NoError(t, db.Order("id ASC").Scopes(ContainsFold("email", term)).Find(&users).Error)

		got := make([]string, len(users))
		for i, u := range users {
			got[i] = u.Email
		}
		require.ElementsMatch(t, want, got, term)
	}
}
