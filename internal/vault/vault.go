// internal/vault/vault.go
//
// Vault KV reader for secret references.
//
// Context
// -------
// A setting whose value is "vault:<mount>/<path>#<key>" is resolved through
// this client instead of being written verbatim.  guacenv runs once per
// container start, so there is no token renewal; the token given at startup
// must stay valid for the few seconds the run takes.  Reads of the same
// path#key within the TTL are served from memory, which matters when several
// settings live in one secret.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(vault.Options{Addr: addr, Token: tok})
//  2. pw,  err := cli.GetKV(ctx, "secret/guacamole", "mysql-password", ttl)
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// Options configures New.  Empty Addr and Token fall back to VAULT_ADDR
// and VAULT_TOKEN as read by the Vault SDK.
type Options struct {
	Addr    string
	Token   string
	Timeout time.Duration
}

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // path#key -> value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client.
func New(opts Options) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	if opts.Addr != "" {
		cfg.Address = opts.Addr
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	cfg.MaxRetries = 0 // one shot; the container restarts on failure

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if opts.Token != "" {
		apiCli.SetToken(opts.Token)
	}

	return &Client{api: apiCli, cache: make(map[string]cached)}, nil
}

// Address is the server address in use after environment fallback.
func (c *Client) Address() string { return c.api.Address() }

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	if rel == "" {
		return "", fmt.Errorf("secret path %q has no path below the mount", secretPath)
	}
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	return sval, nil
}

func splitMount(p string) (mount, rel string) {
	p = strings.Trim(p, "/")
	mount, rel, _ = strings.Cut(p, "/")
	return mount, rel
}
