package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var slugDisallowed = regexp.MustCompile(`[^a-z0-9-]+`)

// Post is a blog entry. AuthorID is fixed at creation to the authenticated
// creator and never changes afterwards.
type Post struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Content   string      `json:"content"`
	Tags      []string    `json:"tags"`
	Published bool        `json:"published"`
	AuthorID  uuid.UUID   `json:"authorId"`
	Author    *PostAuthor `json:"author,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PostAuthor holds the public fields of a post's owner.
type PostAuthor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AuthorFromUser projects the public author fields out of a user.
func AuthorFromUser(u *User) *PostAuthor {
	if u == nil {
		return nil
	}

	return &PostAuthor{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PostPage is one page of a listing.
type PostPage struct {
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int64   `json:"total"`
	Items []*Post `json:"items"`
}

// NormalizeSlug lowercases the slug, turns whitespace and underscores into
// hyphens and strips everything outside [a-z0-9-].
func NormalizeSlug(slug string) string {
	s := strings.ToLower(strings.TrimSpace(slug))
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' || r == '\t' {
			return '-'
		}

		return r
	}, s)
	s = slugDisallowed.ReplaceAllString(s, "")

	return strings.Trim(s, "-")
}

// NormalizeTags trims tags, drops empties and removes duplicates while keeping
// the first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}
