package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/state"
	"github.com/bhavyajain7773/ATF-Design/core/user"
	"github.com/bhavyajain7773/ATF-Design/services/email"
	"github.com/bhavyajain7773/ATF-Design/storage"
	"github.com/bhavyajain7773/ATF-Design/storage/database/dummy"
)

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// LoggerMock records log entries instead of printing them.
type LoggerMock struct {
	mu      sync.Mutex
	Entries []LogEntry
}

var _ core.Logger = (*LoggerMock)(nil)

func (l *LoggerMock) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Count returns the number of entries logged at level.
func (l *LoggerMock) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Env bundles an AppState with the in-memory pieces behind it.
type Env struct {
	Conf    *core.Config
	Logger  *LoggerMock
	DB      *dummydb.DB
	Store   *storage.Store
	MailSvc core.EmailService
	App     *state.AppState
}

// NewEnv builds an AppState over an in-memory backend.
// Options are applied to the state options before the state is loaded.
func NewEnv(t *testing.T, opts ...func(*state.Options)) *Env {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	return NewEnvWithDB(t, db, opts...)
}

// NewEnvWithDB is like NewEnv over an existing backend: use it to simulate a reload.
func NewEnvWithDB(t *testing.T, db *dummydb.DB, opts ...func(*state.Options)) *Env {
	t.Helper()
	conf := core.NewTestConfig()
	logger := new(LoggerMock)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	seed := course.MustSeedCatalog()
	store := storage.NewStore(db, logger, seed, conf.Storage.Quota)

	stateOpts := state.Options{
		Store:   store,
		Logger:  logger,
		MailSvc: mailSvc,
		Conf:    conf,
		Seed:    seed,
	}
	for _, opt := range opts {
		opt(&stateOpts)
	}
	app, err := state.New(context.Background(), stateOpts)
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	return &Env{Conf: stateOpts.Conf, Logger: logger, DB: db, Store: store, MailSvc: mailSvc, App: app}
}

// RegisterUser registers and logs in a user.
func RegisterUser(t *testing.T, app *state.AppState, name, email, pwd string) user.User {
	t.Helper()
	usr, _, err := app.Register(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Phone:    "+91 98765 43210",
		Password: pwd,
	})
	if err != nil {
		t.Fatalf("RegisterUser() failed: %v", err)
	}
	return usr
}

// LoginAdmin logs in the administrator configured in conf.
func LoginAdmin(t *testing.T, app *state.AppState, conf *core.Config) user.User {
	t.Helper()
	usr, _, err := app.AdminLogin(context.Background(), conf.Admin.ID, conf.Admin.Password)
	if err != nil {
		t.Fatalf("LoginAdmin() failed: %v", err)
	}
	return usr
}
