package repository

import (
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UserByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	return first[models.User](db.Where("id = ?", id))
}

func UserByEmail(db *gorm.DB, email string) (*models.User, error) {
	return first[models.User](db.Where("email = ?", email))
}

func UserByUsername(db *gorm.DB, username string) (*models.User, error) {
	return first[models.User](db.Where("username = ?", username))
}
