package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// ExpertProficiencies are the levels that put a user in the experts directory.
var ExpertProficiencies = []Proficiency{ProficiencyAdvanced, ProficiencyExpert}

const MaxYearsExperience = 80

func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// UserSkill records that a user knows a skill, and how well. A user holds
// each skill at most once.
type UserSkill struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_skill"`
	SkillID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_skill;index"`
	ProficiencyLevel Proficiency `gorm:"size:20;not null;index"`
	YearsExperience  int         `gorm:"not null"`

	User  User  `gorm:"foreignKey:UserID"`
	Skill Skill `gorm:"foreignKey:SkillID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (us *UserSkill) BeforeCreate(tx *gorm.DB) error {
	assignID(&us.ID)
	return nil
}
