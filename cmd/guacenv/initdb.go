package main

import (
	"github.com/spf13/cobra"

	"github.com/AdeptTravel/guacenv/internal/backend"
	"github.com/AdeptTravel/guacenv/internal/config"
	"github.com/AdeptTravel/guacenv/internal/initdb"
)

func newInitdbCmd() *cobra.Command {
	var mysql, postgres bool
	cmd := &cobra.Command{
		Use:   "initdb (--mysql | --postgresql)",
		Short: "Print the SQL that initializes an empty Guacamole database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			kind := &backend.MySQL
			if postgres {
				kind = &backend.PostgreSQL
			}
			return initdb.Script(cmd.OutOrStdout(), cfg.Paths.Source, kind)
		},
	}
	cmd.Flags().BoolVar(&mysql, "mysql", false, "print the MySQL schema")
	cmd.Flags().BoolVar(&postgres, "postgresql", false, "print the PostgreSQL schema")
	cmd.MarkFlagsMutuallyExclusive("mysql", "postgresql")
	cmd.MarkFlagsOneRequired("mysql", "postgresql")
	return cmd
}
