package cmd

import (
	"fmt"
	"strings"
)

// TokenCommand shows stored bearer token, masked unless --show set
type TokenCommand struct {
	Show bool `long:"show" description:"print token as is"`

	CommonOpts
}

// Execute is the entry point for "token" command, called by flag parser
func (tc *TokenCommand) Execute(_ []string) error {
	svc, err := tc.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	token, ok, err := svc.store.Get()
	if err != nil {
		return err
	}
	if !ok || token == "" {
		fmt.Fprintln(tc.Stdout, "no token")
		return nil
	}
	if !tc.Show {
		token = maskToken(token)
	}
	fmt.Fprintln(tc.Stdout, token)
	return nil
}

// maskToken keeps 4 chars on each side of long tokens, short ones hidden completely
func maskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
