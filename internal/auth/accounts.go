package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petermazzocco/renovation-portal/internal/repository"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

type RegisterInput struct {
	FullName string
	Address  string
	Phone    string
	Email    string
	Password string
}

// Accounts registers and authenticates users.
type Accounts struct {
	users repository.UserRepository
}

func NewAccounts(users repository.UserRepository) *Accounts {
	return &Accounts{users: users}
}

// Register creates a customer account. Self-registration never grants the
// admin role.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return a.create(ctx, in, models.RoleCustomer)
}

// CreateAdmin creates an administrator, or promotes an existing account
// and resets its password.
func (a *Accounts) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := a.users.FindByEmail(ctx, in.Email)
	switch err := utils.TranslateDBError(err); {
	case err == nil:
	case errors.Is(err, utils.ErrNotFound):
		return a.create(ctx, in, models.RoleAdmin)
	default:
		return nil, err
	}

	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", utils.ErrValidation, MinPasswordLength)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := a.users.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return nil, utils.TranslateDBError(err)
	}
	if err := a.users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
		return nil, utils.TranslateDBError(err)
	}
	existing.Role = models.RoleAdmin
	return existing, nil
}

// Authenticate checks email and password. Unknown emails and wrong
// passwords fail the same way.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(utils.TranslateDBError(err), utils.ErrNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(password, u.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	return u, nil
}

// FindForOAuth maps a provider-verified email onto an existing account.
// OAuth never creates accounts.
func (a *Accounts) FindForOAuth(ctx context.Context, email string) (*models.User, error) {
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(utils.TranslateDBError(err), utils.ErrNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	return u, nil
}

func (a *Accounts) create(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", utils.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", utils.ErrValidation, MinPasswordLength)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		FullName: strings.TrimSpace(in.FullName),
		Address:  strings.TrimSpace(in.Address),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := a.users.Create(ctx, u); err != nil {
		err = utils.TranslateDBError(err)
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Get returns the account by id.
func (a *Accounts) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	return u, nil
}
