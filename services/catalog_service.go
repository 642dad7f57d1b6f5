package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type SkillInput struct {
	Name        string
	Category    string
	Description *string
}

// ListSkills returns all skills ordered by name. A non-empty category
// restricts the result to that category.
func (s *CatalogService) ListSkills(ctx context.Context, category string) ([]models.Skill, error) {
	return repository.ListSkills(s.db.WithContext(ctx), strings.TrimSpace(category))
}

func (s *CatalogService) GetSkill(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	skill, err := repository.SkillByID(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, NotFound("skill not found")
	}
	return skill, nil
}

// CreateSkill adds a skill. Names are unique by exact, case-sensitive match.
func (s *CatalogService) CreateSkill(ctx context.Context, in SkillInput) (*models.Skill, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" {
		return nil, Validation("name and category are required")
	}

	skill := models.Skill{
		Name:        name,
		Category:    category,
		Description: optionalText(in.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Skill{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return Conflict("skill already exists")
		}
		if err := tx.Create(&skill).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("skill already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return repository.SkillCategories(s.db.WithContext(ctx))
}
