package authentication

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// TokenIssuer mints bearer tokens for an authenticated account.
type TokenIssuer interface {
	Issue(employeeID uint, username, role string) (string, error)
}

type AuthenticationService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
}

type authenticationService struct {
	store  *store.Store
	hasher *utils.PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger

	// decoy is verified against when the username is unknown so both failure
	// paths spend the same bcrypt work.
	decoy func() string
}

func NewAuthenticationService(
	s *store.Store,
	hasher *utils.PasswordHasher,
	tokens TokenIssuer,
	logger *zap.Logger,
) AuthenticationService {
	return &authenticationService{
		store:  s,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		decoy: sync.OnceValue(func() string {
			hash, _ := hasher.Hash("decoy-password-never-matches")
			return hash
		}),
	}
}

func (a *authenticationService) Login(ctx context.Context, username, password string) (string, error) {
	var token string
	err := a.store.WithTransaction(ctx, func(tx *store.Store) error {
		account, err := tx.Accounts().FindByUsername(ctx, username)
		if errors.Is(err, store.ErrNotFound) {
			a.hasher.Verify(a.decoy(), password)
			return ErrInvalidCredentials
		}
		if err != nil {
			return fmt.Errorf("loading account: %w", err)
		}

		switch a.hasher.Verify(account.PasswordHash, password) {
		case utils.PasswordFailed:
			return ErrInvalidCredentials
		case utils.PasswordRehashNeeded:
			a.rehash(ctx, tx, account.ID, password)
		}

		token, err = a.tokens.Issue(account.EmployeeID, account.Username, account.Role.Name)
		if err != nil {
			return fmt.Errorf("issuing token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// rehash upgrades a hash produced with an older work factor. It runs in a
// savepoint so a failure leaves the login transaction usable.
func (a *authenticationService) rehash(ctx context.Context, tx *store.Store, accountID uint, password string) {
	err := tx.WithTransaction(ctx, func(sp *store.Store) error {
		hash, err := a.hasher.Hash(password)
		if err != nil {
			return err
		}
		return sp.Accounts().UpdatePasswordHash(ctx, accountID, hash)
	})
	if err != nil {
		a.logger.Warn("failed to rehash password", zap.Uint("accountID", accountID), zap.Error(err))
		return
	}
	a.logger.Info("password rehashed", zap.Uint("accountID", accountID))
}
