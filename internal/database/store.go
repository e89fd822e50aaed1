package database

import (
	"context"
	"errors"
	"fmt"

	"todo-ledger/internal/models"
	"todo-ledger/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements store.Store on top of gorm.
type Store struct {
	DB *gorm.DB
}

var _ store.Store = (*Store)(nil)

// NewStore wraps an open connection. Call AutoMigrate first.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// CreateUser relies on the unique username index, so concurrent
// registrations of one name yield exactly one row.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, store.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Store) ListTasks(ctx context.Context, ownerID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// UpdateTask reads, patches and saves the row inside one transaction.
func (s *Store) UpdateTask(ctx context.Context, ownerID, id uint, patch models.TaskPatch) (models.Task, error) {
	var task models.Task
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return fmt.Errorf("find task: %w", err)
		}
		if patch.Empty() {
			return nil
		}
		patch.Apply(&task)
		// Select lists the columns so false/empty values are written too.
		if err := tx.Model(&task).
			Select("title", "completed", "updated_at").
			Updates(&task).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, ownerID, id uint) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
