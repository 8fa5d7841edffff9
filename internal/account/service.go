package account

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

var ErrUsernameTaken = errors.New("username already exists")

// RegisterAccountRequest is the payload for creating an account.
type RegisterAccountRequest struct {
	Username   string `json:"username" validate:"required,max=100,username"`
	Password   string `json:"password" validate:"required,min=12,maxbytes=72,strongpassword"`
	EmployeeID uint   `json:"employeeId" validate:"gt=0"`
}

type AccountService interface {
	Register(ctx context.Context, req RegisterAccountRequest) (uint, error)
}

type accountService struct {
	store  *store.Store
	hasher *utils.PasswordHasher
	logger *zap.Logger
}

func NewAccountService(s *store.Store, hasher *utils.PasswordHasher, logger *zap.Logger) AccountService {
	return &accountService{store: s, hasher: hasher, logger: logger}
}

// Register creates an account with the User role. The unique index on
// username settles concurrent registrations; the loser gets ErrUsernameTaken.
func (a *accountService) Register(ctx context.Context, req RegisterAccountRequest) (uint, error) {
	var id uint
	err := a.store.WithTransaction(ctx, func(tx *store.Store) error {
		taken, err := tx.Accounts().UsernameExists(ctx, req.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}

		exists, err := tx.Employees().Exists(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return validation.Single("employeeId", fmt.Sprintf("Employee '%d' not found.", req.EmployeeID))
		}

		role, err := tx.Reference().RoleByName(ctx, store.RoleUser)
		if err != nil {
			return fmt.Errorf("loading %s role: %w", store.RoleUser, err)
		}

		hash, err := a.hasher.Hash(req.Password)
		if err != nil {
			return err
		}

		account := &store.Account{
			Username:     req.Username,
			PasswordHash: hash,
			EmployeeID:   req.EmployeeID,
			RoleID:       role.ID,
		}
		if err := tx.Accounts().Create(ctx, account); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrUsernameTaken
			}
			return err
		}
		id = account.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	a.logger.Info("account registered", zap.Uint("accountID", id), zap.Uint("employeeID", req.EmployeeID))
	return id, nil
}
