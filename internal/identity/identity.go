// Package identity issues the stable anonymous visitor identifier used to
// correlate submissions from one profile.
package identity

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/onepctclub/storefront/internal/profile"
)

// EnsureVisitorID returns the persisted visitor id, generating and storing
// one on first use. The id never expires and never rotates.
func EnsureVisitorID(store *profile.Store) (string, error) {
	id, ok, err := store.Get(profile.KeyVisitorID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = newVisitorID()
	if err := store.Put(profile.KeyVisitorID, id); err != nil {
		return "", err
	}
	return id, nil
}

// newVisitorID prefers a random UUID; when the system random source is
// unavailable it falls back to a timestamp plus pseudo-random suffix whose
// uniqueness is best effort only.
func newVisitorID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	suffix := strconv.FormatInt(rand.Int63(), 36)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}
