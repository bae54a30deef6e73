package user

import (
	"testing"
	"testing/fstest"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-insights/core"
)

type loggerMock struct{}

func (loggerMock) Debug(string, ...interface{}) {}
func (loggerMock) Info(string, ...interface{})  {}
func (loggerMock) Warn(string, ...interface{})  {}
func (loggerMock) Error(string, ...interface{}) {}
func (loggerMock) Fatal(string, ...interface{}) {}

func newValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func TestNewUser_validation(t *testing.T) {
	LoadCommonPasswords(fstest.MapFS{commonPasswordsFile: {Data: []byte("password\nP@ssw0rd\n")}}, loggerMock{})
	validate := newValidator()

	newUser := func(name, uname, email, pwd string, roles ...string) NewUser {
		return NewUser{
			SchoolID:        "sch1",
			Name:            name,
			Username:        uname,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
			Roles:           roles,
		}
	}

	tests := []struct {
		name string
		data NewUser
		want map[string]string // {field: tag}
	}{
		{name: "valid", data: newUser("Kim", "kimk", "kim@test.cd", "Xk9#mTq2vL", RoleStudent), want: map[string]string{}},
		{name: "too short", data: newUser("Kim", "kimk", "", "Ab1!"), want: map[string]string{"password": pwdMinLenTag}},
		{name: "whitespace", data: newUser("Kim", "kimk", "", "Abcdef1! x"), want: map[string]string{"password": pwdNoSpaceTag}},
		{name: "all numeric", data: newUser("Kim", "kimk", "", "12345678"), want: map[string]string{"password": pwdNotAllNumTag}},
		{name: "no complexity", data: newUser("Kim", "kimk", "", "abcdefgh"), want: map[string]string{"password": pwdComplexityTag}},
		{name: "similar to username", data: newUser("Jonathan Smith", "jonathan", "", "Jonathan1!"), want: map[string]string{"password": pwdAttrSimTag}},
		{name: "common", data: newUser("Kim", "kimk", "kim@test.cd", "P@ssw0rd"), want: map[string]string{"password": pwdNoCommonTag}},
		{
			name: "username or email", data: newUser("Kim", "", "", "Xk9#mTq2vL"),
			want: map[string]string{"username": usernameOrEmailTag, "email": usernameOrEmailTag},
		},
		{name: "invalid role", data: newUser("Kim", "kimk", "", "Xk9#mTq2vL", "wizard:"), want: map[string]string{"roles": allRolesTag}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[string]string)
			if err := validate.Struct(tt.data); err != nil {
				vErrs, ok := err.(validator.ValidationErrors)
				if !ok {
					t.Fatalf("failed! err = %v; want validator.ValidationErrors", err)
				}
				for _, fe := range vErrs {
					got[fe.Field()] = fe.Tag()
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
