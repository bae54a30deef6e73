package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-insights/core"
)

type repoMock struct {
	users map[string]User
}

func (repo *repoMock) CheckUsernameUniqueness(_ context.Context, username, email string, excludedUsers ...User) error {
	for _, usr := range repo.users {
		excluded := false
		for _, ex := range excludedUsers {
			excluded = excluded || ex.ID == usr.ID
		}
		switch {
		case excluded:
		case username != "" && usr.Username == username:
			return ErrUsernameExists
		case email != "" && usr.Email == email:
			return ErrEmailExists
		}
	}
	return nil
}

func (repo *repoMock) CreateUser(_ context.Context, usr User) (User, error) {
	usr.ID = usr.Username
	repo.users[usr.ID] = usr
	return usr, nil
}

func (repo *repoMock) GetUser(_ context.Context, filter GetFilter) (User, error) {
	for _, usr := range repo.users {
		if filter.SchoolID != "" && usr.SchoolID != filter.SchoolID {
			continue
		}
		if (filter.ID != "" && usr.ID == filter.ID) ||
			(filter.UsernameOrEmail != "" && (usr.Username == filter.UsernameOrEmail || usr.Email == filter.UsernameOrEmail)) {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (repo *repoMock) UpdateUser(_ context.Context, usr User) (User, error) {
	if _, ok := repo.users[usr.ID]; !ok {
		return User{}, ErrNotFound
	}
	repo.users[usr.ID] = usr
	return usr, nil
}

func TestService_Create(t *testing.T) {
	svc := NewService(&repoMock{users: make(map[string]User)})
	validate := newValidator()
	ctx := context.Background()

	nu := NewUser{
		SchoolID: " sch1 ", Name: "Kim", Username: " KimK ", Email: "Kim@Test.cd",
		Password: "Xk9#mTq2vL", PasswordConfirm: "Xk9#mTq2vL", Roles: []string{RoleTeacher},
	}
	require.NoError(t, nu.Validate(ctx, validate, svc))
	usr, err := svc.Create(ctx, nu)
	require.NoError(t, err)

	assert.Equal(t, "sch1", usr.SchoolID)
	assert.Equal(t, "kimk", usr.Username)
	assert.Equal(t, "kim@test.cd", usr.Email)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.IsTeacher())
	assert.NoError(t, usr.CheckPassword("Xk9#mTq2vL"))

	dup := nu
	dup.Email = "other@test.cd"
	err = dup.Validate(ctx, validate, svc)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.Equal(t, []core.FieldError{{Field: "username", Error: ErrUsernameExists.Error()}}, vErr.Fields)
}

func TestService_Authenticate(t *testing.T) {
	active := User{ID: "u1", SchoolID: "sch1", Username: "kim", Email: "kim@test.cd", IsActive: true}
	inactive := User{ID: "u2", SchoolID: "sch1", Username: "old", Email: "old@test.cd"}
	require.NoError(t, active.SetPassword("Xk9#mTq2vL"))
	require.NoError(t, inactive.SetPassword("Xk9#mTq2vL"))
	svc := NewService(&repoMock{users: map[string]User{active.ID: active, inactive.ID: inactive}})

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "unknown user", uname: "nobody", pwd: "Xk9#mTq2vL", wantErr: ErrAuthenticationFailed},
		{name: "wrong password", uname: "kim", pwd: "nope", wantErr: ErrAuthenticationFailed},
		{name: "deactivated", uname: "old", pwd: "Xk9#mTq2vL", wantErr: ErrAccountDeactivated},
		{name: "by username", uname: " KIM ", pwd: "Xk9#mTq2vL"},
		{name: "by email", uname: "kim@test.cd", pwd: "Xk9#mTq2vL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(context.Background(), tt.uname, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("failed! err = %v; want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				assert.Equal(t, active.ID, usr.ID)
				assert.False(t, usr.LastLogin.IsZero())
			}
		})
	}
}

func TestUser_Session(t *testing.T) {
	usr := User{ID: "u1", SchoolID: "sch1", Username: "kim", Email: "kim@test.cd", Roles: []string{RoleParent}}
	sess := usr.Session()

	assert.Equal(t, core.Session{UserID: "u1", SchoolID: "sch1", Username: "kim", Email: "kim@test.cd", Roles: []string{RoleParent}}, sess)
	assert.True(t, sess.HasRolePrefix(RoleParent))
	assert.False(t, sess.HasRolePrefix(StaffRoles...))
}
