package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-blog-auth/models"
)

// seqIDs hands out u-1, u-2, ...
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("u-%d", g.n)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fixedTokens returns the given tokens in order, then repeats the last one.
func fixedTokens(tokens ...string) TokenGenerator {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		t := tokens[i]
		if i < len(tokens)-1 {
			i++
		}
		return t, nil
	}
}

func alice() models.User {
	return models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PhoneNumber:  "5550000001",
		Gender:       models.GenderFemale,
		PasswordHash: "$2a$12$hash-a",
	}
}

func bob() models.User {
	return models.User{
		Username:     "bob",
		Email:        "bob@example.com",
		PhoneNumber:  "5550000002",
		Gender:       models.GenderMale,
		PasswordHash: "$2a$12$hash-b",
	}
}

func ptr[T any](v T) *T {
	return &v
}
