package store

import (
	"log"
	"strings"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/utils"
)

// SeedUser is one guaranteed break-glass account. The PIN here is the
// plaintext the operator types; it is only ever persisted as a bcrypt hash.
type SeedUser struct {
	ID       string
	Name     string
	Username string
	PIN      string
	Role     string
}

// GuaranteedUsers is the fixed account list that must always be recoverable
// from local storage. The admin PIN can be overridden from configuration so
// deployments don't ship the default.
func GuaranteedUsers(adminPIN string) []SeedUser {
	if adminPIN == "" {
		adminPIN = "1234"
	}
	return []SeedUser{
		{ID: "seed-admin", Name: "Shop Admin", Username: "admin", PIN: adminPIN, Role: models.RoleAdmin},
		{ID: "seed-supervisor", Name: "Floor Supervisor", Username: "supervisor", PIN: "2468", Role: models.RoleAdmin},
		{ID: "seed-operator", Name: "Shop Operator", Username: "operator", PIN: "1111", Role: models.RoleEmployee},
	}
}

// reconcileSeeds guarantees every seed account exists in the given user set
// with the expected PIN and role, repairing tampered entries in place. It
// returns the (possibly updated) set and whether anything changed. Safe to
// run on every local-mode user load; a clean set is a no-op.
func reconcileSeeds(users []models.User, seeds []SeedUser) ([]models.User, bool) {
	changed := len(users) == 0 && len(seeds) > 0

	for _, seed := range seeds {
		idx := -1
		for i := range users {
			if strings.EqualFold(users[i].Username, seed.Username) {
				idx = i
				break
			}
		}

		if idx < 0 {
			hash, err := utils.HashPIN(seed.PIN)
			if err != nil {
				log.Printf("Failed to hash seed PIN for %s: %v", seed.Username, err)
				continue
			}
			users = append(users, models.User{
				ID:       seed.ID,
				Name:     seed.Name,
				Username: seed.Username,
				PinHash:  hash,
				Role:     seed.Role,
				IsActive: true,
			})
			changed = true
			continue
		}

		u := &users[idx]
		repair := false
		if !utils.CheckPIN(seed.PIN, u.PinHash) {
			hash, err := utils.HashPIN(seed.PIN)
			if err != nil {
				log.Printf("Failed to hash seed PIN for %s: %v", seed.Username, err)
				continue
			}
			u.PinHash = hash
			repair = true
		}
		if u.Role != seed.Role {
			u.Role = seed.Role
			repair = true
		}
		if !u.IsActive {
			// a disabled break-glass account is a lockout waiting to happen
			repair = true
		}
		if repair {
			u.IsActive = true
			changed = true
		}
	}

	return users, changed
}

// ReconcileLocalUsers applies the seed guarantee to local storage and returns
// the reconciled user set. The read, repair, and write happen as one atomic
// update; a clean set persists nothing.
func ReconcileLocalUsers(local *LocalStore, seeds []SeedUser) ([]models.User, error) {
	return local.UpdateUsers(func(users []models.User) ([]models.User, bool) {
		return reconcileSeeds(users, seeds)
	})
}
