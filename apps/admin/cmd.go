package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

var (
	errHelp  = errors.New("help provided")
	errNoDB  = errors.New("migrate needs a postgres database (database.inMemory is set)")
	errScope = errors.New("program is required; session, section & semester must be set together")
)

type commandLine struct {
	conf  *core.Config
	db    *sql.DB // nil with in-memory storage
	ttSvc *timetable.Service
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose command (up, down, status, create NAME sql ...)")
	fmt.Fprintln(cli.out, "  token -subject ID [-username U -email E -roles R1,R2 -ttl 24h] - print a signed JWT")
	fmt.Fprintln(cli.out, "  grid -program ID [-session ID -section ID -semester N] - print the weekly grid of a class")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if cli.db == nil {
			return errNoDB
		}
		return cli.migrate(args[2:])

	case "token":
		tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
		tokenCmd.SetOutput(cli.out)
		subject := tokenCmd.String("subject", "", "The token subject: the caller's ID. Required.")
		username := tokenCmd.String("username", "", "The caller's username.")
		email := tokenCmd.String("email", "", "The caller's email.")
		roles := tokenCmd.String("roles", "", "Comma-separated roles, e.g. admin:timetable,teacher:")
		ttl := tokenCmd.Duration("ttl", 0, "Validity of the token. Defaults to server.jwtExpirationDelta.")
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if core.CleanString(*subject) == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*subject, *username, *email, splitRoles(*roles), *ttl)

	case "grid":
		gridCmd := flag.NewFlagSet("grid", flag.ContinueOnError)
		gridCmd.SetOutput(cli.out)
		program := gridCmd.Int64("program", 0, "The program ID. Required.")
		session := gridCmd.Int64("session", 0, "The session ID.")
		section := gridCmd.Int64("section", 0, "The section ID.")
		semester := gridCmd.Int("semester", 0, "The semester.")
		if err := gridCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		scope := timetable.Scope{ProgramID: *program, SessionID: *session, SectionID: *section, Semester: *semester}
		if !scope.Valid() {
			gridCmd.Usage()
			return errScope
		}
		return cli.grid(scope)

	default:
		cli.printUsage()
		return errHelp
	}
}

func splitRoles(s string) []string {
	roles := make([]string, 0)
	for _, r := range strings.Split(s, ",") {
		if r = core.CleanString(r, true /* lower */); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
