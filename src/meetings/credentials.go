package meetings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// Credential is a mentor's Google authorization, keyed by email.
type Credential struct {
	Email        string    `json:"email"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	TokenURI     string    `json:"token_uri,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

func CredentialFromToken(email string, tok *oauth2.Token, scopes []string) Credential {
	return Credential{
		Email:        normalizeEmail(email),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Scopes:       scopes,
	}
}

func (c Credential) OAuthToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// Usable reports whether the credential can authorize a call at now, either
// directly or through a refresh.
func (c Credential) Usable(now time.Time) bool {
	if c.RefreshToken != "" {
		return true
	}
	if c.AccessToken == "" {
		return false
	}
	return c.Expiry.IsZero() || now.Before(c.Expiry)
}

// ParseAuthorizedUser reads an authorized-user JSON document such as the one
// printed by cmd/admin-token.
func ParseAuthorizedUser(raw string) (Credential, error) {
	var doc struct {
		Email        string    `json:"email"`
		Token        string    `json:"token"`
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		TokenURI     string    `json:"token_uri"`
		Expiry       time.Time `json:"expiry"`
		Scopes       []string  `json:"scopes"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Credential{}, fmt.Errorf("parse authorized user: %w", err)
	}
	cred := Credential{
		Email:        normalizeEmail(doc.Email),
		AccessToken:  doc.Token,
		RefreshToken: doc.RefreshToken,
		TokenURI:     doc.TokenURI,
		Expiry:       doc.Expiry,
		Scopes:       doc.Scopes,
	}
	if cred.AccessToken == "" {
		cred.AccessToken = doc.AccessToken
	}
	if cred.RefreshToken == "" {
		return Credential{}, errors.New("authorized user has no refresh_token; regenerate it with offline access and consent")
	}
	return cred, nil
}

// SessionStore holds mentor credentials between the OAuth callback and the
// calls made on the mentor's behalf.
type SessionStore interface {
	Get(ctx context.Context, email string) (Credential, bool, error)
	Put(ctx context.Context, cred Credential) error
	Invalidate(ctx context.Context, email string) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemorySessionStore keeps credentials in process memory. A restart drops
// every mentor session.
type MemorySessionStore struct {
	cache *gocache.Cache
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemorySessionStore{cache: gocache.New(ttl, 10*time.Minute)}
}

func (m *MemorySessionStore) Get(_ context.Context, email string) (Credential, bool, error) {
	v, ok := m.cache.Get(normalizeEmail(email))
	if !ok {
		return Credential{}, false, nil
	}
	return v.(Credential), true, nil
}

func (m *MemorySessionStore) Put(_ context.Context, cred Credential) error {
	key := normalizeEmail(cred.Email)
	if key == "" {
		return errors.New("session store: credential without email")
	}
	cred.Email = key
	m.cache.SetDefault(key, cred)
	return nil
}

func (m *MemorySessionStore) Invalidate(_ context.Context, email string) error {
	m.cache.Delete(normalizeEmail(email))
	return nil
}

const credentialKeyPrefix = "mentor_cred:"

// RedisSessionStore keeps credentials in redis so sessions survive restarts and
// are shared between processes.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionStore) Get(ctx context.Context, email string) (Credential, bool, error) {
	raw, err := r.rdb.Get(ctx, credentialKeyPrefix+normalizeEmail(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, err
	}
	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return Credential{}, false, fmt.Errorf("decode credential: %w", err)
	}
	return cred, true, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, cred Credential) error {
	key := normalizeEmail(cred.Email)
	if key == "" {
		return errors.New("session store: credential without email")
	}
	cred.Email = key
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, credentialKeyPrefix+key, raw, r.ttl).Err()
}

func (r *RedisSessionStore) Invalidate(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, credentialKeyPrefix+normalizeEmail(email)).Err()
}
