package proc

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"

	"github.com/umputun/photo-feed/app/api"
	"github.com/umputun/photo-feed/app/models"
	"github.com/umputun/photo-feed/app/store"
)

// DefaultPerPage is the page size of photos request
const DefaultPerPage = 10

// Requester makes and sends api requests
type Requester interface {
	NewRequest(ctx context.Context, method, endpoint string, query url.Values, token string) (*http.Request, error)
	SendJSON(req *http.Request, v interface{}) error
	SendEmpty(req *http.Request) error
}

// Photos keeps photos loaded page by page in the order they arrived.
// Only one page loads at a time, call made while loading is ignored.
type Photos struct {
	API     Requester
	Store   store.TokenStore
	PerPage int
	Clean   func(string) string // applied to photo descriptions

	mu       sync.Mutex
	photos   []models.Photo
	lastPage int
	loading  bool
	gen      int // bumped by Reset, page loaded for an older gen is dropped
	notifier
}

// NextPage loads the next page and appends it. Returns number of photos added.
// On failure nothing changes and the same page is requested next time.
// Page loaded after Reset is discarded.
func (p *Photos) NextPage(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		log.Printf("[DEBUG] photos page is loading, skip")
		return 0, nil
	}
	p.loading = true
	page, gen := p.lastPage+1, p.gen
	p.mu.Unlock()

	records, err := p.fetch(ctx, page)
	if err != nil {
		p.mu.Lock()
		if p.gen == gen {
			p.loading = false
		}
		p.mu.Unlock()
		log.Printf("[WARN] can't load photos page %d, %v", page, err)
		return 0, err
	}

	added := make([]models.Photo, 0, len(records))
	for _, r := range records {
		added = append(added, models.NewPhoto(r, p.Clean))
	}

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		log.Printf("[DEBUG] photos reset while page %d loading, drop it", page)
		return 0, nil
	}
	p.photos = append(p.photos, added...)
	p.lastPage = page
	p.loading = false
	total := len(p.photos)
	p.mu.Unlock()

	log.Printf("[DEBUG] photos page %d loaded, %d added, total %d", page, len(added), total)
	p.notify()
	return len(added), nil
}

// ToggleLike likes (liked=true) or unlikes the photo and updates the cached one on success
func (p *Photos) ToggleLike(ctx context.Context, id string, liked bool) error {
	token, err := p.token()
	if err != nil {
		return err
	}

	method := "DELETE"
	if liked {
		method = "POST"
	}
	req, err := p.API.NewRequest(ctx, method, "/photos/"+url.PathEscape(id)+"/like", nil, token)
	if err != nil {
		return err
	}
	if err = p.API.SendEmpty(req); err != nil {
		log.Printf("[WARN] can't set like=%v for %s, %v", liked, id, err)
		return errors.Wrapf(err, "can't set like for %s", id)
	}

	p.mu.Lock()
	changed := false
	for i := range p.photos {
		if p.photos[i].ID == id && p.photos[i].IsLiked != liked {
			p.photos[i].IsLiked = liked
			changed = true
		}
	}
	p.mu.Unlock()

	if changed {
		p.notify()
	}
	return nil
}

// Reset drops all loaded photos and starts paging from the first page.
// Page load in progress is abandoned and doesn't block the next NextPage call.
func (p *Photos) Reset() {
	p.mu.Lock()
	p.photos = nil
	p.lastPage = 0
	p.loading = false
	p.gen++
	p.mu.Unlock()
	p.notify()
}

// Photos returns copy of loaded photos
func (p *Photos) Photos() []models.Photo {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]models.Photo, len(p.photos))
	copy(res, p.photos)
	return res
}

// Page returns the number of the last loaded page, 0 if nothing loaded
func (p *Photos) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPage
}

func (p *Photos) fetch(ctx context.Context, page int) ([]models.PhotoResult, error) {
	token, err := p.token()
	if err != nil {
		return nil, err
	}

	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := p.API.NewRequest(ctx, "GET", "/photos", q, token)
	if err != nil {
		return nil, err
	}
	var res []models.PhotoResult
	if err = p.API.SendJSON(req, &res); err != nil {
		return nil, errors.Wrapf(err, "page %d", page)
	}
	return res, nil
}

func (p *Photos) token() (string, error) {
	return bearer(p.Store)
}

// bearer gets token from the store, no token is ErrMissingToken
func bearer(s store.TokenStore) (string, error) {
	token, ok, err := s.Get()
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", api.ErrMissingToken
	}
	return token, nil
}
