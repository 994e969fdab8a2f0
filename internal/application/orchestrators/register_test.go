package orchestrators

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
)

func registerDeps(users *mockUserStore, children *mockChildStore) RegisterDeps {
	return RegisterDeps{
		InTx: func(ctx context.Context, fn func(RegisterStores) error) error {
			return fn(RegisterStores{Users: users, Children: children})
		},
		GenerateID: seqIDs(),
		Now:        nowFn,
	}
}

// TestExecuteRegister_Validation tests each rejected input and its message.
func TestExecuteRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantMsg string
	}{
		{"short username", RegisterInput{Username: "ab", Password: "secret1", ConfirmPassword: "secret1", Role: "employee"}, "Username must be at least 3 characters."},
		{"short password", RegisterInput{Username: "amy", Password: "12345", ConfirmPassword: "12345", Role: "employee"}, "Password must be at least 6 characters."},
		{"mismatch", RegisterInput{Username: "amy", Password: "secret1", ConfirmPassword: "secret2", Role: "employee"}, "Passwords do not match."},
		{"manager role", RegisterInput{Username: "amy", Password: "secret1", ConfirmPassword: "secret1", Role: "manager"}, "Invalid role selected."},
		{"parent without child", RegisterInput{Username: "amy", Password: "secret1", ConfirmPassword: "secret1", Role: "parent", ChildName: "  "}, "Parent registration requires a child name."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserStore()
			_, err := ExecuteRegister(context.Background(), tt.input, registerDeps(users, newMockChildStore()))
			if !apperr.Is(err, apperr.KindValidation) || err.Error() != tt.wantMsg {
				t.Errorf("err = %v, want validation %q", err, tt.wantMsg)
			}
			if len(users.users) != 0 {
				t.Error("no user should be created")
			}
		})
	}
}

// TestExecuteRegister_ParentCreatesChild verifies the child is linked to the new parent.
func TestExecuteRegister_ParentCreatesChild(t *testing.T) {
	users, children := newMockUserStore(), newMockChildStore()
	u, err := ExecuteRegister(context.Background(), RegisterInput{
		Username: " mum ", Password: "secret1", ConfirmPassword: "secret1",
		Role: account.RoleParent, ChildName: "Kai", Email: "mum@example.com",
	}, registerDeps(users, children))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "mum" || u.Role != account.RoleParent {
		t.Errorf("user = %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(users.users[u.ID].PasswordHash), []byte("secret1")) != nil {
		t.Error("stored hash should match the password")
	}
	if len(children.children) != 1 {
		t.Fatalf("children = %d, want 1", len(children.children))
	}
	for _, c := range children.children {
		if c.Name != "Kai" || c.ParentUserID != u.ID {
			t.Errorf("child = %+v", c)
		}
	}
}

// TestExecuteRegister_DuplicateUsername verifies the store conflict surfaces unchanged.
func TestExecuteRegister_DuplicateUsername(t *testing.T) {
	dup := apperr.Conflict("Username already exists. Choose a different username.")
	users := newMockUserStore()
	users.createErr = dup
	_, err := ExecuteRegister(context.Background(), RegisterInput{
		Username: "amy", Password: "secret1", ConfirmPassword: "secret1", Role: account.RoleEmployee,
	}, registerDeps(users, newMockChildStore()))
	if err != dup {
		t.Errorf("err = %v, want duplicate conflict", err)
	}
}

// TestExecuteLogin tests credential checks and the uniform failure message.
func TestExecuteLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	users := newMockUserStore(account.User{ID: "u1", Username: "amy", PasswordHash: string(hash), Role: account.RoleEmployee})
	deps := LoginDeps{Users: users}

	id, err := ExecuteLogin(context.Background(), LoginInput{Username: " amy ", Password: "secret1"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != "u1" || id.Role != account.RoleEmployee || id.Username != "amy" {
		t.Errorf("identity = %+v", id)
	}

	for _, in := range []LoginInput{
		{Username: "amy", Password: "wrong"},
		{Username: "nobody", Password: "secret1"},
		{Username: "", Password: ""},
	} {
		if _, err := ExecuteLogin(context.Background(), in, deps); err != account.ErrWrongPassword {
			t.Errorf("ExecuteLogin(%+v) = %v, want ErrWrongPassword", in, err)
		}
	}
}

// TestExecuteSeedManager verifies the manager is created once.
func TestExecuteSeedManager(t *testing.T) {
	users := newMockUserStore()
	deps := SeedManagerDeps{Users: users, GenerateID: idFn, Now: nowFn}
	input := SeedManagerInput{Username: "manager", Password: "manager123"}

	created, err := ExecuteSeedManager(context.Background(), input, deps)
	if err != nil || !created {
		t.Fatalf("first seed = %v, %v", created, err)
	}
	if users.users["test-id-001"].Role != account.RoleManager {
		t.Errorf("seeded user = %+v", users.users["test-id-001"])
	}

	created, err = ExecuteSeedManager(context.Background(), input, deps)
	if err != nil || created {
		t.Errorf("second seed = %v, %v; want no-op", created, err)
	}
}

// TestExecuteSeedManager_MissingCredentials verifies an unconfigured seed fails loudly.
func TestExecuteSeedManager_MissingCredentials(t *testing.T) {
	_, err := ExecuteSeedManager(context.Background(), SeedManagerInput{}, SeedManagerDeps{Users: newMockUserStore(), GenerateID: idFn, Now: nowFn})
	if err == nil {
		t.Error("expected error without credentials")
	}
}

// TestExecuteLogin_StoreFailure verifies a failing user lookup is not reported
// as bad credentials.
func TestExecuteLogin_StoreFailure(t *testing.T) {
	users := newMockUserStore()
	users.getErr = errStoreDown
	_, err := ExecuteLogin(context.Background(), LoginInput{Username: "amy", Password: "secret1"}, LoginDeps{Users: users})
	if !errors.Is(err, errStoreDown) {
		t.Errorf("err = %v, want errStoreDown", err)
	}
}
