// Package initdb prints the SQL schema shipped with a database backend so
// operators can initialize an empty database:
//
//	docker run --rm guacamole guacenv initdb --mysql > initdb.sql
package initdb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/AdeptTravel/guacenv/internal/backend"
)

// Script writes every schema/*.sql file of kind, in lexical order, to w.
func Script(w io.Writer, source string, kind *backend.Kind) error {
	if kind == nil || kind.Driver == "" {
		return fmt.Errorf("initdb: only database backends ship a schema")
	}
	pattern := filepath.Join(source, kind.Name, "schema", "*.sql")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("initdb: no schema files match %s", pattern)
	}
	sort.Strings(files)

	for _, f := range files {
		if err := copyFile(w, f); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
