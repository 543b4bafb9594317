package main

import (
	"fmt"
	"time"

	echoapi "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/apps/api/echo"
)

// token prints a JWT the API accepts, for local testing: identities are issued elsewhere.
func (cli *commandLine) token(subject, username, email string, roles []string, ttl time.Duration) error {
	claims := echoapi.NewClaims(cli.conf, subject, username, email, roles, ttl)
	tok, err := echoapi.GenerateToken(claims, cli.conf.SecretKey)
	if err != nil {
		return err
	}

	expiresIn := time.Until(time.Unix(claims.ExpiresAt, 0))
	fmt.Fprintf(cli.out, "# %s, roles %v, expires in %s\n", subject, roles, expiresIn.Round(time.Minute))
	fmt.Fprintln(cli.out, tok)
	return nil
}
