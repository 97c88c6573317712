package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/coleta-api/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrações do esquema (goose)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica as migrações pendentes",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				n, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				log.Info().Int("applied", n).Msg("migraciones aplicadas")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Reverte a última migração",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				if err := m.Down(cmd.Context()); err != nil {
					return err
				}
				log.Info().Msg("última migración revertida")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Lista as migrações e seu estado",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				st, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range st {
					state := "pendente"
					if s.Applied {
						state = "aplicada"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-10s %s\n", s.Version, state, s.Path)
				}
				return nil
			}),
		},
	)
	return cmd
}

func withMigrator(fn func(cmd *cobra.Command, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		m, err := postgres.NewMigrator(pool)
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(cmd, m)
	}
}
