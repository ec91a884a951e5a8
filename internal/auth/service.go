package auth

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/recipegram-app/recipegram/internal/entities"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// UserStore is the slice of the users repository the service needs.
type UserStore interface {
	CreateUser(username, passwordHash, profileImage string) (*entities.User, error)
	GetByUsername(username string) (*entities.User, error)
	GetByID(id uint) (*entities.User, error)
}

// MediaStore persists a picked image and returns its stable path.
// An error means "no image", never a registration failure.
type MediaStore interface {
	SaveCopy(src string) (string, error)
}

// Service handles registration and login.
type Service struct {
	users  UserStore
	media  MediaStore
	hasher Hasher
}

// NewService creates a new authentication service.
func NewService(users UserStore, media MediaStore, hasher Hasher) *Service {
	return &Service{
		users:  users,
		media:  media,
		hasher: hasher,
	}
}

// Register creates a new user. The username must be free (compared
// case-insensitively); an optional profile image at imageURI is copied into
// durable storage first, and a failed copy degrades to registering without
// an image. Returns the created user.
func (s *Service) Register(username, password, imageURI string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	_, err := s.users.GetByUsername(username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	profileImage := s.saveImage(imageURI)

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, passwordHash, profileImage)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies the claimed credentials and returns the matching user.
// A missing user and a wrong password both yield ErrInvalidCredentials, so
// callers cannot distinguish which part failed.
func (s *Service) Login(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by id, for session restoration.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}

// saveImage copies the picked image into durable storage, swallowing any
// copy failure into "no image".
func (s *Service) saveImage(imageURI string) string {
	if imageURI == "" || s.media == nil {
		return ""
	}
	path, err := s.media.SaveCopy(imageURI)
	if err != nil {
		log.Printf("Failed to save profile image, continuing without it: %v", err)
		return ""
	}
	return path
}
