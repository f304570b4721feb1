package proc

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/umputun/photo-feed/app/models"
)

// Renderer makes plain text presentation of photos and profile
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer makes Renderer stripping all html from server provided texts
func NewRenderer() *Renderer {
	return &Renderer{policy: bluemonday.StrictPolicy()}
}

// Clean removes html tags and entities, collapses whitespace
func (r *Renderer) Clean(s string) string {
	// bluemonday doesn't remove escaped html tags, unescape first
	s = html.UnescapeString(r.policy.Sanitize(html.UnescapeString(s)))
	return strings.Join(strings.Fields(s), " ")
}

// Photo renders single photo as a few lines of text
func (r *Renderer) Photo(n int, p models.Photo) string {
	like := " "
	if p.IsLiked {
		like = "♥"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%3d %s %s %dx%d", n, like, p.ID, p.Width, p.Height))
	if p.CreatedAt != nil {
		sb.WriteString(" " + p.CreatedAt.Format("02 Jan 2006"))
	}
	sb.WriteString("\n")
	if desc := strings.TrimSpace(p.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("      %s\n", desc))
	}
	sb.WriteString(fmt.Sprintf("      %s\n", p.FullURL))
	return sb.String()
}

// Photos renders list of photos, numbered from 1
func (r *Renderer) Photos(photos []models.Photo) string {
	var sb strings.Builder
	for i, p := range photos {
		sb.WriteString(r.Photo(i+1, p))
	}
	return sb.String()
}

// Profile renders user profile with optional avatar url
func (r *Renderer) Profile(p models.Profile, avatar string) string {
	var sb strings.Builder
	if p.Name != "" {
		sb.WriteString(p.Name + "\n")
	}
	sb.WriteString(p.LoginName + "\n")
	if bio := strings.TrimSpace(p.Bio); bio != "" {
		sb.WriteString(bio + "\n")
	}
	if avatar != "" {
		sb.WriteString(avatar + "\n")
	}
	return sb.String()
}
