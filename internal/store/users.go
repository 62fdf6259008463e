package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alextreichler/shopfront/internal/models"
)

var ErrUsernameTaken = errors.New("username already exists")

// GetUserByUsername returns nil, nil when no user has that name.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	existing, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user := &models.User{Username: username, PasswordHash: hashedPassword}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}
