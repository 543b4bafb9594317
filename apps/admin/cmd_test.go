package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/apps/api/echo"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database/inmem"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/tests"
)

var scope = timetable.Scope{ProgramID: 1, SessionID: 2, SectionID: 3, Semester: 1}

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	conf := core.NewTestConfig()
	svc, err := timetable.NewService(nil, inmemdb.NewTimetableRepository(inmemdb.Open(conf)), nil, conf)
	require.NoError(t, err)

	// no connection is made until the first query
	db, err := sql.Open("postgres", "host=localhost")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	out := new(bytes.Buffer)
	return &commandLine{
		conf:  conf,
		db:    db,
		ttSvc: svc,
		out:   out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, want an error")
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _ := setup(t)
	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
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
		return nil
	}

	runCLITests(t, cli, []cliTest{
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
		{name: "create", args: []string{"migrate", "create", "rooms", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})

	t.Run("in-memory storage", func(t *testing.T) {
		memCLI := *cli
		memCLI.db = nil
		assert.Equal(t, errNoDB, memCLI.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_token(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no subject", args: []string{"token"}, wantErr: errHelp},
		{name: "blank subject", args: []string{"token", "-subject", "  "}, wantErr: errHelp},
		{name: "bad ttl", args: []string{"token", "-subject", "1", "-ttl", "lol"}, wantErr: errHelp},
	})

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "token", "-subject", "42", "-username", "registrar", "-roles", "Admin:Timetable, teacher:,", "-ttl", "2h"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "# 42, roles [admin:timetable teacher:], expires in 2h0m0s", lines[0])

	claims := new(echoapi.Claims)
	_, err := jwt.ParseWithClaims(lines[1], claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cli.conf.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "registrar", claims.Username)
	assert.Equal(t, []string{"admin:timetable", "teacher:"}, claims.Roles)
	assert.True(t, claims.IsAdmin)
	assert.True(t, claims.IsTeacher)
	assert.False(t, claims.IsStudent)
}

func Test_commandLine_grid(t *testing.T) {
	cli, out := setup(t)
	termWidthFunc = func() int { return 80 }

	testutil.CreateEntry(t, cli.ttSvc, scope, 1, timetable.Monday, "08:00", "08:45", "B12")
	testutil.CreateEntry(t, cli.ttSvc, scope, 2, timetable.Tuesday, "08:15", "08:30")
	testutil.CreateEntry(t, cli.ttSvc, scope, 3, timetable.Saturday, "19:30", "21:00")
	testutil.CreateEntry(t, cli.ttSvc, scope, 4, timetable.Saturday, "20:00", "21:00")

	runCLITests(t, cli, []cliTest{
		{name: "no program", args: []string{"grid"}, wantErr: errScope},
		{name: "mixed scope", args: []string{"grid", "-program", "1", "-session", "2"}, wantErr: errScope},
	})

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "grid", "-program", "1", "-session", "2", "-section", "3", "-semester", "1"}))

	// 80 columns: 6 for the slots, 12 per day
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 1+48+1)
	assert.Equal(t, "      Monday      Tuesday     Wednesday   Thursday    Friday      Saturday", lines[0])
	assert.Equal(t, "08:00 s1 t1 B12   .           .           .           .           .", lines[1])
	assert.Equal(t, "08:15 |           s1 t2       .           .           .           .", lines[2])
	assert.Equal(t, "08:30 |           .           .           .           .           .", lines[3])
	assert.Equal(t, "08:45 .           .           .           .           .           .", lines[4])
	assert.Equal(t, "19:30 .           .           .           .           .           s1 t3", lines[47])
	assert.Equal(t, "19:45 .           .           .           .           .           |", lines[48])
	assert.Equal(t, "off grid: Saturday 20:00-21:00 s1 t4", lines[49])
}
