// Package secret resolves settings from the process environment, honouring
// the Docker secret convention where <NAME>_FILE points at a file holding
// the value of <NAME>.
package secret

import (
	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
)

// Env is a read-only view of environment variables.  Lookup returns "" for
// unset variables; Exists tells unset apart from set-but-empty.
type Env interface {
	Lookup(name string) string
	Exists(name string) bool
}

// MapEnv is an Env backed by a plain map.
type MapEnv map[string]string

func (m MapEnv) Lookup(name string) string { return m[name] }

func (m MapEnv) Exists(name string) bool {
	_, ok := m[name]
	return ok
}

// KoanfEnv is a snapshot of the process environment taken at load time.
type KoanfEnv struct {
	k *koanf.Koanf
}

// LoadEnv snapshots os.Environ through the koanf env provider.  Names are
// kept verbatim; no prefix filtering or key rewriting is applied.
func LoadEnv() (*KoanfEnv, error) {
	// Env names never contain NUL, so the delimiter keeps every name flat.
	k := koanf.New("\x00")
	if err := k.Load(env.Provider("", "\x00", func(s string) string { return s }), nil); err != nil {
		return nil, err
	}
	return &KoanfEnv{k: k}, nil
}

func (e *KoanfEnv) Lookup(name string) string { return e.k.String(name) }

func (e *KoanfEnv) Exists(name string) bool { return e.k.Exists(name) }
