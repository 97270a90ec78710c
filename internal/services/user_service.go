package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	mongorepo "github.com/devconnect/backend/internal/repositories/mongo"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/utils"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type userService struct {
	users mongorepo.UserRepository
	auth  AuthService
}

func NewUserService(users mongorepo.UserRepository, auth AuthService) UserService {
	return &userService{users: users, auth: auth}
}

// registerParams carries the pre-trimmed registration input through the
// validator; tag order matches the field order of the error contract.
type registerParams struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var registerMessages = map[string]string{
	"name":     "name is required",
	"email":    "please include a valid email",
	"password": "password must be at least 6 characters",
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	const op = "UserService.Register"

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validate.Struct(registerParams{Name: name, Email: email, Password: password}); err != nil {
		return nil, "", utils.Ev(op, validationFields(err, registerMessages)...)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Avatar:   utils.GravatarURL(email),
	}

	// The unique index on email is the source of truth for duplicates.
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, "", utils.E(utils.CodeConflict, op, "user already exists", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := s.auth.Issue(u.ID.Hex())
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "UserService.Login"

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	if err := utils.CheckPassword(u.Password, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", err)
	}

	token, err := s.auth.Issue(u.ID.Hex())
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *userService) Get(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	const op = "UserService.Get"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}
