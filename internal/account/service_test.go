package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mehmetcc/device-assignment-service/internal/account"
	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/store/storetest"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

const testPassword = "Abcdef12!xyz"

func newService(t *testing.T) (account.AccountService, *store.Store, *store.Employee, *utils.PasswordHasher) {
	t.Helper()
	s := storetest.New(t)
	position := storetest.Position(t, s, "Engineer")
	employee := storetest.Employee(t, s, position.ID, "Jane", "Doe")
	hasher, err := utils.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return account.NewAccountService(s, hasher, zap.NewNop()), s, employee, hasher
}

func TestRegister_CreatesUserAccount(t *testing.T) {
	svc, s, employee, hasher := newService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, account.RegisterAccountRequest{Username: "alice", Password: testPassword, EmployeeID: employee.ID})
	require.NoError(t, err)
	assert.NotZero(t, id)

	stored, err := s.Accounts().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, store.RoleUser, stored.Role.Name)
	assert.Equal(t, employee.ID, stored.EmployeeID)
	assert.NotEqual(t, testPassword, stored.PasswordHash)
	assert.Equal(t, utils.PasswordOK, hasher.Verify(stored.PasswordHash, testPassword))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, employee, _ := newService(t)
	ctx := context.Background()
	req := account.RegisterAccountRequest{Username: "alice", Password: testPassword, EmployeeID: employee.ID}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, account.ErrUsernameTaken)

	req.Username = "Alice"
	_, err = svc.Register(ctx, req)
	assert.NoError(t, err)
}

func TestRegister_UnknownEmployee(t *testing.T) {
	svc, s, _, _ := newService(t)

	_, err := svc.Register(context.Background(), account.RegisterAccountRequest{Username: "ghost", Password: testPassword, EmployeeID: 999})

	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "employeeId", verr.Errors[0].PropertyName)
	assert.Equal(t, "Employee '999' not found.", verr.Errors[0].ErrorMessage)

	exists, err := s.Accounts().UsernameExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}
