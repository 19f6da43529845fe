package database

import (
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards with '!', which every supported dialect accepts in ESCAPE
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Paginate limits a query to one page. A zero limit leaves the query unbounded.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ContainsFold matches rows whose column contains term, ignoring case.
// The term is matched literally. An empty term matches everything.
func ContainsFold(column, term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE LOWER(?) ESCAPE '!'", "%"+likeEscaper.Replace(term)+"%")
	}
}
