package repository

import (
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Omit(clause.Associations).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

// Delete removes a user and their task assignments in a transaction
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// List returns users ordered by creation, optionally filtered by role
func (r *GormUserRepository) List(role models.Role) ([]models.User, error) {
	var users []models.User
	query := r.db.Order("id ASC")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(ids []uint64) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
