package identity

import (
	"errors"
	"testing"

	"github.com/cyz/app-mentoria/internal/model"
	"github.com/cyz/app-mentoria/internal/store"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir())
	doc := &model.UsersDoc{
		Profiles: map[string]model.Profile{
			"admin":       {Permissions: []string{PermRead, PermCreate, PermDelete, PermManageParticipants}},
			"participant": {Permissions: []string{PermRead, PermSelfManage}},
			"ghost":       {Permissions: []string{PermRead}},
		},
		Users: map[string]model.User{
			"admin":       {Name: "Administradora", Email: "admin@womakerscode.org", Profile: "admin"},
			"participant": {Name: "Ana", Email: "ana@womakerscode.org", Profile: "participant"},
		},
		CurrentUser: model.User{Name: "Administradora", Email: "admin@womakerscode.org", Profile: "admin"},
	}
	if err := st.SaveUsers(doc); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return NewEvaluator(st), st
}

func TestPermissionsOfKnownProfile(t *testing.T) {
	e, _ := newTestEvaluator(t)
	perms, err := e.CurrentPermissions()
	if err != nil {
		t.Fatalf("current permissions: %v", err)
	}
	if !Has(perms, PermCreate) || !Has(perms, PermDelete) {
		t.Fatalf("expected admin permissions, got %v", perms)
	}
	if Has(perms, PermSelfManage) {
		t.Fatalf("admin must not self-manage, got %v", perms)
	}
}

func TestPermissionsOfUnknownProfileDefaultsToRead(t *testing.T) {
	e, _ := newTestEvaluator(t)
	perms, err := e.PermissionsOf(model.User{Name: "X", Email: "x@x.org", Profile: "nonexistent"})
	if err != nil {
		t.Fatalf("permissions: %v", err)
	}
	if len(perms) != 1 || perms[0] != PermRead {
		t.Fatalf("expected read-only default, got %v", perms)
	}
}

func TestPermissionsOfEmptyProfileUsesDefaultName(t *testing.T) {
	e, _ := newTestEvaluator(t)
	perms, err := e.PermissionsOf(model.User{Name: "X", Email: "x@x.org"})
	if err != nil {
		t.Fatalf("permissions: %v", err)
	}
	if !Has(perms, PermSelfManage) {
		t.Fatalf("expected the participant profile for an empty profile name, got %v", perms)
	}
}

func TestHasPermission(t *testing.T) {
	e, _ := newTestEvaluator(t)
	allowed, err := e.HasPermission(PermCreate)
	if err != nil || !allowed {
		t.Fatalf("expected create allowed, got %v err=%v", allowed, err)
	}
	allowed, err = e.HasPermission(PermSelfManage)
	if err != nil || allowed {
		t.Fatalf("expected self_manage denied, got %v err=%v", allowed, err)
	}
}

func TestSwitchReplacesCurrentUserAndPersists(t *testing.T) {
	e, st := newTestEvaluator(t)

	if err := e.Switch("participant"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	user, err := e.CurrentUser()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "ana@womakerscode.org" || user.Profile != "participant" {
		t.Fatalf("unexpected current user: %+v", user)
	}

	// The switch survives a cache drop: it was written through to disk.
	doc, err := st.RefreshUsers()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if doc.CurrentUser.Email != "ana@womakerscode.org" {
		t.Fatalf("switch not persisted: %+v", doc.CurrentUser)
	}
}

func TestSwitchUnknownProfileMutatesNothing(t *testing.T) {
	e, _ := newTestEvaluator(t)

	err := e.Switch("nonexistent")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	user, err := e.CurrentUser()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Profile != "admin" {
		t.Fatalf("failed switch mutated current user: %+v", user)
	}
}

func TestSwitchRequiresBothCollections(t *testing.T) {
	e, _ := newTestEvaluator(t)

	// "ghost" exists in profiles but has no user record.
	err := e.Switch("ghost")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile for profile without user, got %v", err)
	}
}
