package posts

import (
	"context"
	"errors"
	"time"

	"github.com/privateboard/privateboard/internal/credentials"
	"github.com/privateboard/privateboard/pkg/slug"
)

// Unlock outcomes. Callers must be able to tell these apart, so they are
// sentinel errors rather than message strings.
var (
	ErrNotFound      = errors.New("post not found")
	ErrExpired       = errors.New("post expired")
	ErrWrongPassword = errors.New("wrong password")
)

// Unlocked is the payload returned for a successful unlock.
type Unlocked struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Service encapsulates post creation and unlocking.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create hashes the password, generates a slug and persists the post.
// expiresIn is an optional lifetime in hours; nil means the post never
// expires. Returns the public slug.
func (s *Service) Create(ctx context.Context, title, content, password string, expiresIn *int) (string, error) {
	hash, err := credentials.Hash(password)
	if err != nil {
		return "", err
	}
	p := &Post{
		Slug:         slug.New(),
		Title:        title,
		Content:      content,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if expiresIn != nil {
		t := p.CreatedAt.Add(time.Duration(*expiresIn) * time.Hour)
		p.ExpiresAt = &t
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return "", err
	}
	return p.Slug, nil
}

// Unlock returns the post payload when slug and password check out.
//
// The expiry check deliberately runs before password verification: an
// expired post is unconditionally gone, even with the correct password.
// This keeps expired-with-right-password indistinguishable from
// expired-with-wrong-password and skips a costly bcrypt round for dead
// records. Expiry is also enforced here at read time, independent of the
// background reaper, so a post whose reap cycle has not run yet is still
// inaccessible.
func (s *Service) Unlock(ctx context.Context, slugVal, password string) (*Unlocked, error) {
	p, err := s.repo.FindBySlug(ctx, slugVal)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Expired(s.now()) {
		return nil, ErrExpired
	}
	ok, err := credentials.Verify(password, p.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPassword
	}
	return &Unlocked{Title: p.Title, Content: p.Content}, nil
}
