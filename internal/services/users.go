package services

import (
	"context"
	"errors"
	"strings"

	"github.com/defectrack/defectrack/internal/auth"
	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("Incorrect username or password")

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     types.Role
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(conn *gorm.DB) *UserService {
	return &UserService{db: conn}
}

// Register creates an account without a company. Role is fixed from here on.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return nil, conflict("Username, email and password are required")
	}

	if !in.Role.Valid() {
		return nil, conflict("Unknown role %q", in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, unexpected("Failed to hash password", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}

	err = inTx(ctx, s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
			return storeErr("Failed to check existing users", err)
		}
		if count > 0 {
			return conflict("Username or email already registered")
		}

		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return conflict("Username or email already registered")
			}
			return storeErr("Failed to create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate returns ErrInvalidCredentials for both unknown usernames and
// wrong passwords.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, unexpected("Failed to load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
