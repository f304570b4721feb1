package cmd

import (
	"fmt"
)

// LogoutCommand removes stored token
type LogoutCommand struct {
	CommonOpts
}

// Execute is the entry point for "logout" command, called by flag parser
func (lc *LogoutCommand) Execute(_ []string) error {
	svc, err := lc.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	if err = svc.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(lc.Stdout, "logged out")
	return nil
}

// StatusCommand reports if the user is logged in
type StatusCommand struct {
	CommonOpts
}

// Execute is the entry point for "status" command, called by flag parser
func (sc *StatusCommand) Execute(_ []string) error {
	svc, err := sc.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	ok, err := svc.session.SignedIn()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(sc.Stdout, "not logged in")
		return nil
	}
	fmt.Fprintln(sc.Stdout, "logged in")
	return nil
}
