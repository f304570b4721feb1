package cmd

import (
	"context"
	"fmt"

	"github.com/umputun/photo-feed/app/proc"
)

// LikeCommand set of flags and command for like/unlike of photos
type LikeCommand struct {
	Unlike bool `long:"unlike" description:"remove like instead of setting it"`
	Args   struct {
		IDs []string `positional-arg-name:"id" required:"1" description:"photo ids"`
	} `positional-args:"yes" required:"yes"`

	CommonOpts
}

// Execute is the entry point for "like" command, called by flag parser
func (lc *LikeCommand) Execute(_ []string) error {
	return toggleLikes(lc.CommonOpts, lc.Args.IDs, !lc.Unlike)
}

// UnlikeCommand removes likes, same as "like --unlike"
type UnlikeCommand struct {
	Args struct {
		IDs []string `positional-arg-name:"id" required:"1" description:"photo ids"`
	} `positional-args:"yes" required:"yes"`

	CommonOpts
}

// Execute is the entry point for "unlike" command, called by flag parser
func (uc *UnlikeCommand) Execute(_ []string) error {
	return toggleLikes(uc.CommonOpts, uc.Args.IDs, false)
}

func toggleLikes(opts CommonOpts, ids []string, liked bool) error {
	svc, err := opts.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	p := proc.Processor{Photos: svc.photos, Concurrent: concurrent(opts.Conf)}
	if err = p.ToggleLikes(context.Background(), ids, liked); err != nil {
		return err
	}

	action := "liked"
	if !liked {
		action = "unliked"
	}
	fmt.Fprintf(opts.Stdout, "%s %d photo(s)\n", action, len(ids))
	return nil
}

func concurrent(conf proc.Conf) int {
	conf.SetDefaults()
	return conf.System.Concurrent
}
