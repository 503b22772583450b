package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers logged-out tokens until they would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	Revoked(ctx context.Context, token string) (bool, error)
}

// fingerprint keeps raw tokens out of the backing store.
func fingerprint(token string, secret []byte) string {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

// RedisDenylist stores token fingerprints as keys with a TTL.
type RedisDenylist struct {
	client *redis.Client
	secret []byte
	prefix string
}

// NewRedisDenylist creates a deny-list under the "connect:revoked:" key prefix.
func NewRedisDenylist(client *redis.Client, secret string) *RedisDenylist {
	return &RedisDenylist{client: client, secret: []byte(secret), prefix: "connect:revoked:"}
}

func (d *RedisDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.prefix+fingerprint(token, d.secret), 1, ttl).Err()
}

func (d *RedisDenylist) Revoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+fingerprint(token, d.secret)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryDenylist is a process-local deny-list for single-instance deployments.
type MemoryDenylist struct {
	mu      sync.Mutex
	secret  []byte
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist creates an empty in-memory deny-list.
func NewMemoryDenylist(secret string) *MemoryDenylist {
	return &MemoryDenylist{secret: []byte(secret), entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, k)
		}
	}
	if expiresAt.After(now) {
		d.entries[fingerprint(token, d.secret)] = expiresAt
	}
	return nil
}

func (d *MemoryDenylist) Revoked(_ context.Context, token string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.entries[fingerprint(token, d.secret)]
	return ok && exp.After(d.now()), nil
}
