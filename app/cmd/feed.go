package cmd

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"
)

// FeedCommand set of flags and command for photos listing
type FeedCommand struct {
	Pages int `long:"pages" default:"1" description:"number of pages to load"`

	CommonOpts
}

// Execute is the entry point for "feed" command, called by flag parser
func (fc *FeedCommand) Execute(_ []string) error {
	svc, err := fc.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	pages := fc.Pages
	if pages <= 0 {
		pages = 1
	}

	unsubscribe := svc.photos.Subscribe(func() {
		log.Printf("[DEBUG] photos changed, page %d, %d photos", svc.photos.Page(), len(svc.photos.Photos()))
	})
	defer unsubscribe()

	ctx := context.Background()
	for i := 0; i < pages; i++ {
		n, err := svc.photos.NextPage(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}

	fmt.Fprint(fc.Stdout, svc.render.Photos(svc.photos.Photos()))
	return nil
}
