package repository

import (
	"fmt"
	"sync"

	"valentine_quiz_backend/internal/model"

	"gorm.io/gorm"
)

// MemoryQuizRepository keeps records in a map. Used by tests and by the
// offline flow engine; behaves like the gorm repository, including returning
// gorm.ErrRecordNotFound for misses and rejecting duplicate ids.
type MemoryQuizRepository struct {
	mu      sync.RWMutex
	quizzes map[string]*model.Quiz
}

func NewMemoryQuizRepository() *MemoryQuizRepository {
	return &MemoryQuizRepository{quizzes: make(map[string]*model.Quiz)}
}

func (r *MemoryQuizRepository) Create(quiz *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quiz.ID == "" {
		quiz.ID = model.GenerateUUID()
	}
	if _, exists := r.quizzes[quiz.ID]; exists {
		return fmt.Errorf("duplicate quiz id %s", quiz.ID)
	}

	r.quizzes[quiz.ID] = quiz.Clone()
	return nil
}

func (r *MemoryQuizRepository) FindByID(id string) (*model.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return quiz.Clone(), nil
}
