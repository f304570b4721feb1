package cmd

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"
)

// ProfileCommand set of flags and command for profile info
type ProfileCommand struct {
	NoAvatar bool `long:"no-avatar" description:"skip avatar url"`

	CommonOpts
}

// Execute is the entry point for "profile" command, called by flag parser
func (pc *ProfileCommand) Execute(_ []string) error {
	svc, err := pc.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	ctx := context.Background()
	profile, err := svc.profiles.Fetch(ctx)
	if err != nil {
		return err
	}

	avatar := ""
	if !pc.NoAvatar {
		if avatar, err = svc.avatars.Fetch(ctx, profile.Username); err != nil {
			log.Printf("[WARN] avatar is not available, %v", err)
		}
	}
	fmt.Fprint(pc.Stdout, svc.render.Profile(profile, avatar))
	return nil
}
