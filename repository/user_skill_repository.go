package repository

import (
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UserSkillFor(db *gorm.DB, userID, skillID uuid.UUID) (*models.UserSkill, error) {
	return first[models.UserSkill](db.Where("user_id = ? AND skill_id = ?", userID, skillID))
}

// UserSkillsFor lists a user's skills with Skill preloaded, by skill name.
func UserSkillsFor(db *gorm.DB, userID uuid.UUID) ([]models.UserSkill, error) {
	var out []models.UserSkill
	err := db.Preload("Skill").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id = ?", userID).
		Order("skills.name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UsersWithProficiency pages the users holding any skill at one of levels,
// ordered by username. Each user appears once however many skills match.
func UsersWithProficiency(db *gorm.DB, levels []models.Proficiency, page Page) ([]models.User, int64, error) {
	holders := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.UserSkill{}).
		Select("user_id").
		Where("proficiency_level IN ?", levels)
	q := db.Model(&models.User{}).Where("id IN (?)", holders)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := page.apply(q).Order("username ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UserSkillsByUser loads the skills at one of levels held by any of
// userIDs, keyed by user, in one query.
func UserSkillsByUser(db *gorm.DB, userIDs []uuid.UUID, levels []models.Proficiency) (map[uuid.UUID][]models.UserSkill, error) {
	out := make(map[uuid.UUID][]models.UserSkill, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []models.UserSkill
	err := db.Preload("Skill").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id IN ? AND user_skills.proficiency_level IN ?", userIDs, levels).
		Order("skills.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.UserID] = append(out[r.UserID], r)
	}
	return out, nil
}
