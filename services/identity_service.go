package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IdentityService struct {
	db     *gorm.DB
	tokens *TokenIssuer
}

func NewIdentityService(db *gorm.DB, tokens *TokenIssuer) *IdentityService {
	return &IdentityService{db: db, tokens: tokens}
}

type Registration struct {
	Username string
	Email    string
	Password string
	Bio      *string
}

// ProfilePatch holds the profile fields a user may change. Nil fields are
// left as they are.
type ProfilePatch struct {
	Username *string
	Bio      *string
}

// Register creates a user and returns it together with a fresh identity token.
func (s *IdentityService) Register(ctx context.Context, in Registration) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, "", Validation("username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", Validation("password is too long")
		}
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Bio:          optionalText(in.Bio),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repository.UserByUsername(tx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return Conflict("username already taken")
		}
		existing, err = repository.UserByEmail(tx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return Conflict("email already registered")
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("username or email already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Authenticate checks credentials and issues a token. Unknown emails and
// wrong passwords fail identically.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := repository.UserByEmail(s.db.WithContext(ctx), normalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *IdentityService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := repository.UserByID(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user not found")
	}
	return user, nil
}

func (s *IdentityService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = repository.UserByID(tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}

		if patch.Username != nil {
			username := strings.TrimSpace(*patch.Username)
			if username == "" {
				return Validation("username must not be empty")
			}
			if username != user.Username {
				taken, err := repository.UserByUsername(tx, username)
				if err != nil {
					return err
				}
				if taken != nil {
					return Conflict("username already taken")
				}
				user.Username = username
			}
		}
		if patch.Bio != nil {
			user.Bio = optionalText(patch.Bio)
		}

		if err := tx.Save(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("username already taken")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
