package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AdeptTravel/guacenv/internal/config"
	"github.com/AdeptTravel/guacenv/internal/logger"
	"github.com/AdeptTravel/guacenv/internal/materialize"
	"github.com/AdeptTravel/guacenv/internal/metrics"
	"github.com/AdeptTravel/guacenv/internal/secret"
	"github.com/AdeptTravel/guacenv/internal/vault"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [-- command [args...]]",
		Short: "Materialize the Guacamole home, then optionally exec a command",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return start(ctx, cmd, args)
		},
	}
}

func start(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// Snapshot after config.Load so variables from a .env file are visible.
	env, err := secret.LoadEnv()
	if err != nil {
		return err
	}
	resolver := &secret.Resolver{Env: env, CacheTTL: cfg.Vault.CacheTTL}
	if cfg.Vault.Enabled() {
		cli, err := vault.New(vault.Options{
			Addr:    cfg.Vault.Addr,
			Token:   cfg.Vault.Token,
			Timeout: cfg.Vault.Timeout,
		})
		if err != nil {
			return err
		}
		resolver.Store = cli
		log.Debugw("vault references enabled", "addr", cli.Address())
	}

	m := &materialize.Materializer{
		Resolver:       resolver,
		Home:           cfg.Paths.Home,
		Source:         cfg.Paths.Source,
		Log:            log,
		VerifyDatabase: cfg.Verify.Database,
		VerifyTimeout:  cfg.Verify.Timeout,
	}
	res, runErr := m.Run(ctx)

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warnw("metrics textfile not written", "file", cfg.Metrics.Textfile, "err", err)
		}
	}
	if runErr != nil {
		log.Errorw("configuration failed", "err", runErr)
		return runErr
	}

	log.Infow("configuration complete",
		"properties", res.PropertiesPath,
		"installed", res.Installed,
		"written", res.PropertiesWritten,
	)

	if len(args) == 0 {
		return nil
	}
	return handoff(ctx, cmd, res.Home, args, log)
}

// handoff runs the foreground command with stdio attached and mirrors its
// exit status.  SIGINT and SIGTERM are forwarded as SIGTERM.
func handoff(ctx context.Context, cmd *cobra.Command, home string, args []string, log *zap.SugaredLogger) error {
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Env = append(os.Environ(), materialize.TemplateVar+"="+home)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	c.Cancel = func() error { return c.Process.Signal(syscall.SIGTERM) }

	log.Infow("handing off", "command", args[0])
	err := c.Run()

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &exitError{code: exitCode(ee)}
	}
	return err
}

// exitCode follows the shell convention of 128+signo for a child killed by
// a signal, where ExitCode reports -1.
func exitCode(ee *exec.ExitError) int {
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ee.ExitCode()
}
