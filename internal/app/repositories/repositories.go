package repositories

import (
	"github.com/yigit/qpaper/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	QuestionPaperRepository *QuestionPaperRepository
	UserRepository          *UserRepository
	VisitorStatRepository   *VisitorStatRepository
	HealthRepository        *HealthRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		QuestionPaperRepository: NewQuestionPaperRepository(database),
		UserRepository:          NewUserRepository(database),
		VisitorStatRepository:   NewVisitorStatRepository(database),
		HealthRepository:        NewHealthRepository(database),
	}
}
