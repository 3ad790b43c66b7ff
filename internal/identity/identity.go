// Package identity resolves the simulated acting identity: the current
// user record, the permission set of its profile, and wholesale profile
// switching. There is no real authentication here; the current user is a
// single process-wide seat.
package identity

import (
	"errors"

	"github.com/cyz/app-mentoria/internal/model"
	"github.com/cyz/app-mentoria/internal/store"
)

// Permission tokens understood by the evaluator.
const (
	PermRead               = "read"
	PermCreate             = "create"
	PermDelete             = "delete"
	PermManageParticipants = "manage_participants"
	PermSelfManage         = "self_manage"
)

// DefaultProfile is assumed when a user record carries no profile name.
const DefaultProfile = "participant"

// ErrUnknownProfile reports a switch target missing from the profiles or
// users collection.
var ErrUnknownProfile = errors.New("unknown profile")

type Evaluator struct {
	store *store.Store
}

func NewEvaluator(st *store.Store) *Evaluator {
	return &Evaluator{store: st}
}

func (e *Evaluator) CurrentUser() (model.User, error) {
	doc, err := e.store.Users()
	if err != nil {
		return model.User{}, err
	}
	return doc.CurrentUser, nil
}

// PermissionsOf resolves a user's profile to its permission set; an unknown
// profile degrades to read-only.
func (e *Evaluator) PermissionsOf(user model.User) ([]string, error) {
	doc, err := e.store.Users()
	if err != nil {
		return nil, err
	}
	name := user.Profile
	if name == "" {
		name = DefaultProfile
	}
	profile, ok := doc.Profiles[name]
	if !ok {
		return []string{PermRead}, nil
	}
	return profile.Permissions, nil
}

// CurrentPermissions is the permission set of the current user.
func (e *Evaluator) CurrentPermissions() ([]string, error) {
	user, err := e.CurrentUser()
	if err != nil {
		return nil, err
	}
	return e.PermissionsOf(user)
}

func (e *Evaluator) HasPermission(perm string) (bool, error) {
	perms, err := e.CurrentPermissions()
	if err != nil {
		return false, err
	}
	return Has(perms, perm), nil
}

func Has(perms []string, perm string) bool {
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}

func (e *Evaluator) Profiles() (map[string]model.Profile, error) {
	doc, err := e.store.Users()
	if err != nil {
		return nil, err
	}
	return doc.Profiles, nil
}

// Switch replaces the current user with a copy of the stored user record
// for profileName. The users document is re-read from disk first so a
// stale cache cannot overwrite a concurrent edit. A name missing from
// either collection fails without mutating anything.
func (e *Evaluator) Switch(profileName string) error {
	doc, err := e.store.RefreshUsers()
	if err != nil {
		return err
	}
	if _, ok := doc.Profiles[profileName]; !ok {
		return ErrUnknownProfile
	}
	user, ok := doc.Users[profileName]
	if !ok {
		return ErrUnknownProfile
	}
	doc.CurrentUser = user
	return e.store.SaveUsers(doc)
}
