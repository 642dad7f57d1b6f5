package handlers

import (
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/google/uuid"
)

// Response types are an explicit allow-list of what each entity exposes.
// PasswordHash never appears here.

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

type PublicUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

type PartyResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type OwnerResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
}

type ListingResponse struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	PricePerHour float64       `json:"price_per_hour"`
	Owner        OwnerResponse `json:"owner"`
	Skill        SkillResponse `json:"skill"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type SessionListingResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	SkillName string    `json:"skill_name"`
}

type SessionResponse struct {
	ID              uuid.UUID              `json:"id"`
	Status          models.SessionStatus   `json:"status"`
	ScheduledAt     time.Time              `json:"scheduled_at"`
	DurationMinutes int                    `json:"duration_minutes"`
	Notes           *string                `json:"notes"`
	Teacher         PartyResponse          `json:"teacher"`
	Student         PartyResponse          `json:"student"`
	Listing         SessionListingResponse `json:"listing"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type ReviewResponse struct {
	ID        uuid.UUID     `json:"id"`
	Rating    int           `json:"rating"`
	Comment   *string       `json:"comment"`
	SessionID uuid.UUID     `json:"session_id"`
	Reviewer  PartyResponse `json:"reviewer"`
	Reviewee  PartyResponse `json:"reviewee"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type UserSkillResponse struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	Category         string             `json:"category"`
	ProficiencyLevel models.Proficiency `json:"proficiency_level"`
	YearsExperience  int                `json:"years_experience"`
}

type ProfileResponse struct {
	User          PublicUserResponse  `json:"user"`
	AverageRating float64             `json:"average_rating"`
	ReviewCount   int64               `json:"review_count"`
	Skills        []UserSkillResponse `json:"skills"`
	Listings      []ListingResponse   `json:"listings"`
}

type ExpertResponse struct {
	User          PublicUserResponse  `json:"user"`
	Skills        []UserSkillResponse `json:"skills"`
	ListingsCount int64               `json:"listings_count"`
	AverageRating float64             `json:"average_rating"`
	ReviewCount   int64               `json:"review_count"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

func toPublicUserResponse(u *models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

func toParty(u models.User) PartyResponse {
	return PartyResponse{ID: u.ID, Username: u.Username}
}

func toSkillResponse(s models.Skill) SkillResponse {
	return SkillResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Description: s.Description,
	}
}

func toSkillResponses(skills []models.Skill) []SkillResponse {
	out := make([]SkillResponse, len(skills))
	for i, s := range skills {
		out[i] = toSkillResponse(s)
	}
	return out
}

// toUserSkillResponse reports the skill's own id, matching the skill catalog.
func toUserSkillResponse(us models.UserSkill) UserSkillResponse {
	return UserSkillResponse{
		ID:               us.SkillID,
		Name:             us.Skill.Name,
		Category:         us.Skill.Category,
		ProficiencyLevel: us.ProficiencyLevel,
		YearsExperience:  us.YearsExperience,
	}
}

func toUserSkillResponses(skills []models.UserSkill) []UserSkillResponse {
	out := make([]UserSkillResponse, len(skills))
	for i, us := range skills {
		out[i] = toUserSkillResponse(us)
	}
	return out
}

func toExpertResponses(experts []services.Expert) []ExpertResponse {
	out := make([]ExpertResponse, len(experts))
	for i, e := range experts {
		out[i] = ExpertResponse{
			User:          toPublicUserResponse(&e.User),
			Skills:        toUserSkillResponses(e.Skills),
			ListingsCount: e.ListingCount,
			AverageRating: e.Rating.Average,
			ReviewCount:   e.Rating.Count,
		}
	}
	return out
}

func toListingResponse(d services.ListingDetail) ListingResponse {
	return ListingResponse{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		PricePerHour: d.PricePerHour,
		Owner:        toOwner(d.Owner, d.OwnerRating),
		Skill:        toSkillResponse(d.Skill),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toOwner(u models.User, rating repository.RatingSummary) OwnerResponse {
	return OwnerResponse{
		ID:            u.ID,
		Username:      u.Username,
		AverageRating: rating.Average,
		ReviewCount:   rating.Count,
	}
}

func toListingResponses(details []services.ListingDetail) []ListingResponse {
	out := make([]ListingResponse, len(details))
	for i, d := range details {
		out[i] = toListingResponse(d)
	}
	return out
}

func toSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		Status:          s.Status,
		ScheduledAt:     s.ScheduledAt,
		DurationMinutes: s.DurationMinutes,
		Notes:           s.Notes,
		Teacher:         toParty(s.Teacher),
		Student:         toParty(s.Student),
		Listing: SessionListingResponse{
			ID:        s.Listing.ID,
			Title:     s.Listing.Title,
			SkillName: s.Listing.Skill.Name,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSessionResponses(sessions []models.Session) []SessionResponse {
	out := make([]SessionResponse, len(sessions))
	for i := range sessions {
		out[i] = toSessionResponse(&sessions[i])
	}
	return out
}

func toReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		SessionID: r.SessionID,
		Reviewer:  toParty(r.Reviewer),
		Reviewee:  toParty(r.Reviewee),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = toReviewResponse(&reviews[i])
	}
	return out
}
