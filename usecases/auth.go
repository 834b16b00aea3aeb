package usecases

import (
	"errors"
	"telemetry-server/entities"
	"telemetry-server/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or missing token")
)

type AuthUseCase struct {
	UserRepo  repositories.UserRepository
	TokenRepo repositories.TokenRepository
}

func NewAuthUseCase(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository) *AuthUseCase {
	return &AuthUseCase{
		UserRepo:  userRepo,
		TokenRepo: tokenRepo,
	}
}

// Register creates a user with a bcrypt-hashed password and issues their
// token. A duplicate username fails with ErrUsernameTaken.
func (uc *AuthUseCase) Register(username, password string) (*entities.Token, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	if _, err := uc.UserRepo.GetByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := uc.UserRepo.Create(user); err != nil {
		// Unique index catches registration races the pre-check missed
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return uc.TokenRepo.GetOrCreate(user.ID)
}

// Login verifies credentials and returns the user's existing token,
// creating one if the user has never held one.
func (uc *AuthUseCase) Login(username, password string) (*entities.Token, error) {
	user, err := uc.UserRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return uc.TokenRepo.GetOrCreate(user.ID)
}

// Authenticate resolves a bearer token to the owning user's ID.
func (uc *AuthUseCase) Authenticate(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidToken
	}
	token, err := uc.TokenRepo.GetByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return token.UserID, nil
}
