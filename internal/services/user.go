package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sportify-app/apiserver/internal/store"
	"github.com/sportify-app/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, id int, patch types.UserPatch) (types.User, error)
}

// UserService encapsulates registration, login and profile use-cases.
type UserService struct {
	repo     UserRepository
	hashCost int
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests lower it to keep runs fast.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Sport    string
	Level    string
}

// UpdateInput carries a partial profile update. Nil fields are untouched.
type UpdateInput struct {
	Username *string
	Email    *string
	Sport    *string
	Level    *string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" {
		return types.User{}, invalid("username", "is required")
	}
	if email == "" {
		return types.User{}, invalid("email", "is required")
	}
	if in.Password == "" {
		return types.User{}, invalid("password", "is required")
	}
	sport, err := parseSport("sport", in.Sport)
	if err != nil {
		return types.User{}, err
	}
	level, err := parseLevel("level", in.Level)
	if err != nil {
		return types.User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, store.ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Sport:        sport,
		Level:        level,
	})
}

func (s *UserService) Login(ctx context.Context, email, password string) (types.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return types.User{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id int, in UpdateInput) (types.User, error) {
	var patch types.UserPatch

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return types.User{}, invalid("username", "must not be empty")
		}
		patch.Username = &username
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return types.User{}, invalid("email", "must not be empty")
		}
		patch.Email = &email
	}
	if in.Sport != nil {
		sport, err := parseSport("sport", *in.Sport)
		if err != nil {
			return types.User{}, err
		}
		patch.Sport = &sport
	}
	if in.Level != nil {
		level, err := parseLevel("level", *in.Level)
		if err != nil {
			return types.User{}, err
		}
		patch.Level = &level
	}

	if patch.Empty() {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}
