package store

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/utils"
)

func newTestLocal(t *testing.T) *LocalStore {
	t.Helper()
	local, err := NewLocalStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	return local
}

func TestReconcileSeedsInsertsIntoEmptyStore(t *testing.T) {
	local := newTestLocal(t)
	seeds := GuaranteedUsers("9999")

	users, err := ReconcileLocalUsers(local, seeds)
	require.NoError(t, err)
	require.Len(t, users, len(seeds))

	for _, u := range users {
		require.True(t, u.IsActive)
		require.NotEmpty(t, u.PinHash)
	}

	// persisted, not just returned
	stored, err := local.Users()
	require.NoError(t, err)
	require.Len(t, stored, len(seeds))
}

func TestReconcileSeedsIsIdempotent(t *testing.T) {
	local := newTestLocal(t)
	seeds := GuaranteedUsers("9999")

	first, err := ReconcileLocalUsers(local, seeds)
	require.NoError(t, err)

	// second run must not rewrite anything (bcrypt hashes would change)
	second, err := ReconcileLocalUsers(local, seeds)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestReconcileSeedsRepairsTamperedAccount(t *testing.T) {
	local := newTestLocal(t)
	seeds := GuaranteedUsers("9999")

	users, err := ReconcileLocalUsers(local, seeds)
	require.NoError(t, err)

	// tamper: wrong pin, demoted role, disabled
	badHash, err := utils.HashPIN("0000")
	require.NoError(t, err)
	for i := range users {
		if users[i].Username == "admin" {
			users[i].PinHash = badHash
			users[i].Role = models.RoleEmployee
			users[i].IsActive = false
		}
	}
	require.NoError(t, local.SaveUsers(users))

	repaired, err := ReconcileLocalUsers(local, seeds)
	require.NoError(t, err)

	var admin *models.User
	for i := range repaired {
		if repaired[i].Username == "admin" {
			admin = &repaired[i]
		}
	}
	require.NotNil(t, admin)
	require.True(t, admin.IsActive)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.True(t, utils.CheckPIN("9999", admin.PinHash))
}

func TestReconcileSeedsPreservesOtherUsers(t *testing.T) {
	local := newTestLocal(t)
	seeds := GuaranteedUsers("")

	hash, err := utils.HashPIN("1212")
	require.NoError(t, err)
	extra := models.User{ID: "u-extra", Name: "Extra", Username: "extra", PinHash: hash, Role: models.RoleEmployee, IsActive: true}
	require.NoError(t, local.SaveUsers([]models.User{extra}))

	users, err := ReconcileLocalUsers(local, seeds)
	require.NoError(t, err)
	require.Len(t, users, len(seeds)+1)

	found := false
	for _, u := range users {
		if u.ID == "u-extra" {
			found = true
			require.Equal(t, extra, u)
		}
	}
	require.True(t, found, "non-guaranteed user must survive reconciliation untouched")
}
