package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// FileSuffix is appended to a variable name to form its secret-file
// counterpart, e.g. MYSQL_PASSWORD_FILE.
const FileSuffix = "_FILE"

// VaultPrefix marks a value that must be fetched from Vault.  The remainder
// has the form <mount>/<path>#<key>.
const VaultPrefix = "vault:"

// Store fetches a single key of a KV secret.  *vault.Client satisfies it.
type Store interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// Resolver looks settings up in Env, following _FILE indirection and,
// when a Store is present, vault: references.
type Resolver struct {
	Env      Env
	Store    Store         // optional
	CacheTTL time.Duration // passed through to Store
}

// New returns a Resolver without Vault support.
func New(env Env) *Resolver { return &Resolver{Env: env} }

// Direct returns the raw value of name with no indirection.
func (r *Resolver) Direct(name string) string { return r.Env.Lookup(name) }

// Has reports whether name or name_FILE is set to a non-empty value.
func (r *Resolver) Has(name string) bool {
	return r.Env.Lookup(name+FileSuffix) != "" || r.Env.Lookup(name) != ""
}

// Resolve returns the value of name.  The file named by name_FILE takes
// precedence over name itself.  ok is false when neither is set.
func (r *Resolver) Resolve(ctx context.Context, name string) (value string, ok bool, err error) {
	if path := r.Env.Lookup(name + FileSuffix); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("read %s%s: %w", name, FileSuffix, err)
		}
		value = strings.TrimRight(string(raw), "\r\n")
	} else if v := r.Env.Lookup(name); v != "" {
		value = v
	} else {
		return "", false, nil
	}

	if r.Store != nil && strings.HasPrefix(value, VaultPrefix) {
		value, err = r.fromVault(ctx, name, strings.TrimPrefix(value, VaultPrefix))
		if err != nil {
			return "", false, err
		}
	}
	return value, true, nil
}

func (r *Resolver) fromVault(ctx context.Context, name, ref string) (string, error) {
	path, key, found := strings.Cut(ref, "#")
	if !found || path == "" || key == "" {
		return "", fmt.Errorf("%s: vault reference %q must look like mount/path#key", name, ref)
	}
	v, err := r.Store.GetKV(ctx, path, key, r.CacheTTL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
