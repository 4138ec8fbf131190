package materialize

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PrepareHome deletes home and recreates it, copying template into it when
// template names an existing directory, then ensures extensions/ and lib/
// exist.
func PrepareHome(home, template string) error {
	home = filepath.Clean(home)
	if home == "/" || home == "." {
		return fmt.Errorf("refusing to use %q as the generated home", home)
	}
	if template != "" {
		tmpl := filepath.Clean(template)
		if tmpl == home {
			return errors.New("GUACAMOLE_HOME must not be the generated home")
		}
		if tmpl == "/" || strings.HasPrefix(home, tmpl+string(filepath.Separator)) {
			return fmt.Errorf("GUACAMOLE_HOME %s contains the generated home %s", tmpl, home)
		}
	}

	if err := os.RemoveAll(home); err != nil {
		return fmt.Errorf("reset home: %w", err)
	}

	if template != "" {
		if fi, err := os.Stat(template); err == nil && fi.IsDir() {
			if err := copyTree(home, template); err != nil {
				return fmt.Errorf("copy template %s: %w", template, err)
			}
		}
	}

	for _, d := range []string{"extensions", "lib"} {
		if err := os.MkdirAll(filepath.Join(home, d), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies src into dst the way `cp -a src/. dst/` does for the
// entries a template holds: directories and regular files keep their
// permission bits, symlinks are recreated with the same target.
func copyTree(dst, src string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch mode := info.Mode(); {
		case mode.IsDir():
			return os.MkdirAll(target, mode.Perm())
		case mode&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case mode.IsRegular():
			return copyFile(target, path, mode.Perm())
		default:
			return fmt.Errorf("%s: unsupported file type %s", rel, mode.Type())
		}
	})
}

func copyFile(dst, src string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// O_CREATE honours the umask; restore the template's bits.
	return os.Chmod(dst, perm)
}
