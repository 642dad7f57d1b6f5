package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSkillInput attaches a catalog skill to a user's profile.
type UserSkillInput struct {
	SkillID          string
	ProficiencyLevel string
	YearsExperience  int
}

// Expert is a directory entry: the user, the skills they hold at an
// expert level, how many listings they run and their rating.
type Expert struct {
	User         models.User
	Skills       []models.UserSkill
	ListingCount int64
	Rating       repository.RatingSummary
}

type ExpertPage struct {
	Items []Expert
	Total int64
	Page  repository.Page
}

func parseProficiency(raw string) (models.Proficiency, error) {
	p := models.Proficiency(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", Validation("proficiency_level must be one of beginner, intermediate, advanced, expert")
	}
	return p, nil
}

// AddSkill validates input first, then that the user and skill exist. A
// skill already on the profile is a Conflict.
func (s *IdentityService) AddSkill(ctx context.Context, userID uuid.UUID, in UserSkillInput) (*models.UserSkill, error) {
	skillID, err := parseID(in.SkillID, "skill_id")
	if err != nil {
		return nil, err
	}
	level, err := parseProficiency(in.ProficiencyLevel)
	if err != nil {
		return nil, err
	}
	if in.YearsExperience < 0 || in.YearsExperience > models.MaxYearsExperience {
		return nil, Validation("years_experience must be between 0 and %d", models.MaxYearsExperience)
	}

	var created models.UserSkill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := repository.UserByID(tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}
		skill, err := repository.SkillByID(tx, skillID)
		if err != nil {
			return err
		}
		if skill == nil {
			return NotFound("skill not found")
		}
		existing, err := repository.UserSkillFor(tx, userID, skillID)
		if err != nil {
			return err
		}
		if existing != nil {
			return Conflict("skill already on profile")
		}

		created = models.UserSkill{
			UserID:           userID,
			SkillID:          skillID,
			ProficiencyLevel: level,
			YearsExperience:  in.YearsExperience,
		}
		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("skill already on profile")
			}
			return err
		}
		created.Skill = *skill
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *IdentityService) RemoveSkill(ctx context.Context, userID, skillID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repository.UserSkillFor(tx, userID, skillID)
		if err != nil {
			return err
		}
		if existing == nil {
			return NotFound("skill not on profile")
		}
		return tx.Delete(existing).Error
	})
}

// Skills lists the skills on a user's profile.
func (s *IdentityService) Skills(ctx context.Context, userID uuid.UUID) ([]models.UserSkill, error) {
	db := s.db.WithContext(ctx)
	user, err := repository.UserByID(db, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user not found")
	}
	return repository.UserSkillsFor(db, userID)
}

// Experts pages the users holding at least one skill at advanced or
// expert level. Skills, listing counts and ratings are each loaded with a
// single query for the whole page.
func (s *IdentityService) Experts(ctx context.Context, page, perPage int) (*ExpertPage, error) {
	db := s.db.WithContext(ctx)
	p := repository.NewPage(page, perPage)

	users, total, err := repository.UsersWithProficiency(db, models.ExpertProficiencies, p)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	skills, err := repository.UserSkillsByUser(db, ids, models.ExpertProficiencies)
	if err != nil {
		return nil, err
	}
	counts, err := repository.ListingCounts(db, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := repository.RatingSummaries(db, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Expert, len(users))
	for i, u := range users {
		items[i] = Expert{
			User:         u,
			Skills:       skills[u.ID],
			ListingCount: counts[u.ID],
			Rating:       ratings[u.ID],
		}
	}
	return &ExpertPage{Items: items, Total: total, Page: p}, nil
}
