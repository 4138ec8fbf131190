// cmd/guacenv/main.go
//
// guacenv - container entry point for the Guacamole web application.
//
// Start-up sequence (`guacenv start -- catalina.sh run`)
// -------------------------------------------------------
//
//  1. Install a console logger so configuration problems are visible.
//
//  2. Load guacenv's own settings (.env, YAML, GUACENV_ overrides) and
//     switch to the configured logger.
//
//  3. Snapshot the environment and, when Vault is configured, attach it
//     for vault: references.
//
//  4. Materialize the Guacamole home: guacd, backends, archive links.
//
//  5. Write the metrics textfile if one is configured.
//
//  6. Hand off to the given command with GUACAMOLE_HOME pointing at the
//     generated home.
//
// Any configuration error prints its remediation block to stderr and the
// process exits 1.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdeptTravel/guacenv/internal/backend"
	"github.com/AdeptTravel/guacenv/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit status.
func run(args []string, stdout, stderr io.Writer) int {
	logger.Console()

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var ce *backend.ConfigError
	var ee *exitError
	switch {
	case errors.As(err, &ce):
		fmt.Fprint(stderr, ce.Remediation)
		return 1
	case errors.As(err, &ee):
		return ee.code
	default:
		fmt.Fprintf(stderr, "guacenv: %v\n", err)
		return 1
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "guacenv",
		Short:         "Generate guacamole.properties from the container environment",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newStartCmd(), newInitdbCmd())
	return root
}

// exitError carries the exit status of a handed-off command.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
