package properties

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestSet_CreatesHeaderAndAppends(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", "home")
	w := NewWriter(home)
	w.Now = fixedNow

	require.NoError(t, w.Set("guacd-hostname", "guacd"))
	require.NoError(t, w.Set("guacd-port", "4822"))

	raw, err := os.ReadFile(filepath.Join(home, FileName))
	require.NoError(t, err)
	want := "# guacamole.properties - generated Fri Mar  1 12:00:00 UTC 2024\n" +
		"guacd-hostname: guacd\n" +
		"guacd-port: 4822\n"
	assert.Equal(t, want, string(raw))
	assert.Equal(t, 2, w.Count())
}

func TestSet_DuplicatesAccumulate(t *testing.T) {
	w := NewWriter(t.TempDir())

	require.NoError(t, w.Set("ldap-port", "389"))
	require.NoError(t, w.Set("ldap-port", "636"))

	raw, err := os.ReadFile(w.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ldap-port: 389\nldap-port: 636\n")
}

func TestSet_ValuesWrittenVerbatim(t *testing.T) {
	w := NewWriter(t.TempDir())

	require.NoError(t, w.Set("ldap-user-search-filter", "(&(objectClass=person)(uid=a:b))"))

	raw, err := os.ReadFile(w.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ldap-user-search-filter: (&(objectClass=person)(uid=a:b))\n")
}

func TestSetOptional_EmptyDoesNotCreateFile(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	w := NewWriter(home)

	require.NoError(t, w.SetOptional("mysql-user-required", ""))

	_, err := os.Stat(w.Path)
	assert.True(t, os.IsNotExist(err), "file must not exist, stat err = %v", err)
	_, err = os.Stat(home)
	assert.True(t, os.IsNotExist(err), "home must not be created")
	assert.Zero(t, w.Count())
}

func TestSetOptional_NonEmptyWrites(t *testing.T) {
	w := NewWriter(t.TempDir())

	require.NoError(t, w.SetOptional("mysql-user-required", "true"))

	raw, err := os.ReadFile(w.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "mysql-user-required: true\n")
}

func TestSet_ExistingFileKeepsContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(p, []byte("skip-if-unavailable: mysql\n"), 0o644))

	w := NewWriter(dir)
	require.NoError(t, w.Set("guacd-port", "4822"))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "skip-if-unavailable: mysql\nguacd-port: 4822\n", string(raw))
}
