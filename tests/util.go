package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/user"
)

// NewConfig returns the configuration used by tests, regardless of the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:             "TEST",
		Build:           "test",
		TestMode:        true,
		AppName:         "Masomo Insights",
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://localhost:8080",
		Server: core.ServerConfig{
			Address:                   ":0",
			DisableReqLogs:            true,
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Database: core.DatabaseConfig{Engine: "inmem"},
		Mail: core.MailConfig{
			DefaultFromName:  "Masomo Insights",
			DefaultFromEmail: "noreply@test.cd",
		},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	schoolID, name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	now := time.Now().UTC()
	usr := user.User{
		SchoolID:  schoolID,
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// LoggerMock records logged messages per level.
type LoggerMock struct {
	Messages map[string][]string
}

var _ core.Logger = (*LoggerMock)(nil)

func NewLoggerMock() *LoggerMock {
	return &LoggerMock{Messages: make(map[string][]string)}
}

func (l *LoggerMock) log(level, msg string) { l.Messages[level] = append(l.Messages[level], msg) }

func (l *LoggerMock) Debug(msg string, _ ...interface{}) { l.log("debug", msg) }
func (l *LoggerMock) Info(msg string, _ ...interface{})  { l.log("info", msg) }
func (l *LoggerMock) Warn(msg string, _ ...interface{})  { l.log("warn", msg) }
func (l *LoggerMock) Error(msg string, _ ...interface{}) { l.log("error", msg) }
func (l *LoggerMock) Fatal(msg string, _ ...interface{}) { l.log("fatal", msg) }
