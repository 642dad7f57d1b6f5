package repository

import (
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SkillByID(db *gorm.DB, id uuid.UUID) (*models.Skill, error) {
	return first[models.Skill](db.Where("id = ?", id))
}

// ListSkills returns every skill, optionally restricted to one category.
func ListSkills(db *gorm.DB, category string) ([]models.Skill, error) {
	q := db.Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var skills []models.Skill
	if err := q.Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func SkillCategories(db *gorm.DB) ([]string, error) {
	var categories []string
	err := db.Model(&models.Skill{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
