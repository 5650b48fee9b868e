package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/settings"
	emailsvc "github.com/trezcool/wittayakom/services/email"
	"github.com/trezcool/wittayakom/storage/database/inmem"
	"github.com/trezcool/wittayakom/tests"
)

type fixture struct {
	cli          *commandLine
	accRepo      account.Repository
	settingsRepo settings.Repository
	store        settings.SnapshotStore
}

func setup(t *testing.T) fixture {
	conf := core.NewTestConfig()
	logger := testutil.NewLogger()
	validate, _ := testutil.NewValidator()

	db := inmemdb.NewDB()
	accRepo := inmemdb.NewAccountRepository(db)
	settingsRepo := inmemdb.NewSettingsRepository(db)
	store := settings.NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

	return fixture{
		cli: &commandLine{
			validate: validate,
			accSvc:   account.NewService(accRepo, emailsvc.NewConsoleServiceMock(conf, logger), conf),
			settings: settings.NewCache(settingsRepo, store, logger),
		},
		accRepo:      accRepo,
		settingsRepo: settingsRepo,
		store:        store,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantErrFn  func(error) bool
	extra      interface{}
}

func mockPassword(pwd string) (reset func()) {
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	return func() { readPasswordFunc = orig }
}

func Test_commandLine_migrate(t *testing.T) {
	f := setup(t)

	orig := gooseRunFunc
	defer func() { gooseRunFunc = orig }()
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		if dir != "migrations" {
			return fmt.Errorf("unexpected dir %q", dir)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "gallery", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := f.cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	f := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name only", args: []string{"adduser", "-name", "Somchai"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-name", "Somchai", "-username", "somchai"}, wantErr: errHelp},
		{
			name:  "weak password",
			args:  []string{"adduser", "-name", "Somchai", "-username", "somchai"},
			extra: extra{pwd: "12345678"},
			wantErrFn: func(err error) bool {
				_, ok := err.(validator.ValidationErrors)
				return ok
			},
		},
		{name: "create", args: []string{"adduser", "-name", "Somchai", "-username", "Somchai", "-email", "somchai@test.th"}, extra: extra{pwd: "LolC@t123"}},
		{
			name:      "duplicate",
			args:      []string{"adduser", "-name", "Somchai", "-username", "somchai"},
			extra:     extra{pwd: "LolC@t123"},
			wantErrFn: core.IsValidationError,
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			pwd := ""
			if e, ok := tt.extra.(extra); ok {
				pwd = e.pwd
			}
			defer mockPassword(pwd)()

			err := f.cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrFn != nil:
				assert.True(t, tt.wantErrFn(err), "unexpected error: %v", err)
			default:
				require.NoError(t, err)
				acc, err := f.accRepo.GetAccount(context.Background(), account.GetFilter{UsernameOrEmail: "somchai"})
				require.NoError(t, err)
				assert.Equal(t, "somchai@test.th", acc.Email)
				assert.True(t, acc.IsActive)
				assert.NoError(t, acc.CheckPassword("LolC@t123"))
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	f := setup(t)

	acc := testutil.CreateAccount(t, f.accRepo, "User", "awe", "awe@test.th", "mdr", true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "account not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: account.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", acc.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", "AWE@test.th"}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			pwd := ""
			if e, ok := tt.extra.(extra); ok {
				pwd = e.pwd
			}
			defer mockPassword(pwd)()

			before, err := f.accRepo.GetAccount(context.Background(), account.GetFilter{ID: acc.ID})
			require.NoError(t, err)

			err = f.cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)

			after, err := f.accRepo.GetAccount(context.Background(), account.GetFilter{ID: acc.ID})
			require.NoError(t, err)
			assert.False(t, bytes.Equal(before.PasswordHash, after.PasswordHash), "failed to update new password")
			assert.NoError(t, after.CheckPassword(pwd))
		})
	}
}

func Test_commandLine_refreshSettings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.settingsRepo.Upsert(ctx, settings.Record{Key: settings.KeySchoolName, Value: "โรงเรียนทดสอบ"}))

	require.NoError(t, f.cli.run([]string{"admin", "refreshsettings"}))
	assert.Equal(t, "โรงเรียนทดสอบ", f.cli.settings.Get().Get(settings.KeySchoolName))

	saved, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "โรงเรียนทดสอบ", saved.Get(settings.KeySchoolName))
}
