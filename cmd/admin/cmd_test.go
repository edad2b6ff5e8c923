package main

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database/inmem"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	t.Helper()
	usrRepo := inmem.NewUserRepository(inmem.NewDB())
	return &commandLine{usrRepo: usrRepo}, usrRepo
}

func createUser(t *testing.T, repo user.Repository, name, email, pwd string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		ID:        core.NewID("user"),
		Name:      name,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)
	usr := createUser(t, usrRepo, "Awe", "awe@test.cd", "mdr")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "lol"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"adduser", "-name", "Awe"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-name", "Awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-name", "Awe", "-email", "awe@test.cd"}, pwd: "mdr"},
		{name: "create admin", args: []string{"adduser", "-name", "Boss", "-email", "boss@test.cd", "-admin"}, pwd: "mdr"},
		{name: "update existing", args: []string{"adduser", "-name", "Awe Two", "-email", "awe@test.cd"}, pwd: "lol"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// the admin flag stuck and the update did not duplicate the account
	boss, err := usrRepo.GetUserByEmail(context.Background(), "boss@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if !boss.IsAdmin {
		t.Error("expected boss to be admin")
	}
	users, _ := usrRepo.QueryAllUsers(context.Background())
	if len(users) != 2 {
		t.Errorf("QueryAllUsers() len = %d, want 2", len(users))
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	// no sql database configured on the in-memory CLI
	if err := cli.run([]string{"admin", "migrate", "up"}); err == nil {
		t.Error("expected an error without a sql database")
	}

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		return nil
	}
	if err := cli.run([]string{"admin", "migrate"}); err != errHelp {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
	}
}
