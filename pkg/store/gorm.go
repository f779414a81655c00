package store

import (
	"errors"

	"gorm.io/gorm"

	"taskboard/pkg/model"
)

// GormStore implements Store on a gorm-managed database.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) CreateUser(u model.User) (model.User, error) {
	if err := s.DB.Create(&u).Error; err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *GormStore) GetUser(id uint) (model.User, error) {
	var u model.User
	if err := s.DB.First(&u, id).Error; err != nil {
		return model.User{}, wrapNotFound(err)
	}
	return u, nil
}

func (s *GormStore) GetUserByUsername(username string) (model.User, error) {
	var u model.User
	if err := s.DB.Where("username = ?", username).First(&u).Error; err != nil {
		return model.User{}, wrapNotFound(err)
	}
	return u, nil
}

func (s *GormStore) UserExists(username, email string) (bool, error) {
	var count int64
	err := s.DB.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) CreateTask(t model.Task) (model.Task, error) {
	if err := s.DB.Create(&t).Error; err != nil {
		return model.Task{}, err
	}
	// Reload with the owner so callers can embed it in responses.
	return s.GetTask(t.ID)
}

func (s *GormStore) GetTask(id uint) (model.Task, error) {
	var t model.Task
	if err := s.DB.Preload("User").First(&t, id).Error; err != nil {
		return model.Task{}, wrapNotFound(err)
	}
	return t, nil
}

func (s *GormStore) ListTasks() ([]model.Task, error) {
	var tasks []model.Task
	err := s.DB.Preload("User").
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) SaveTask(t model.Task) (model.Task, error) {
	err := s.DB.Model(&model.Task{ID: t.ID}).
		Updates(map[string]interface{}{
			"title":           t.Title,
			"edited_by_admin": t.EditedByAdmin,
		}).Error
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(t.ID)
}

func (s *GormStore) DeleteTask(id uint) error {
	res := s.DB.Delete(&model.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AppendAudit(e model.AuditEntry) error {
	return s.DB.Create(&e).Error
}

func (s *GormStore) ListAudit(limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []model.AuditEntry
	err := s.DB.Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
