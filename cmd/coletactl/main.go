// coletactl tareas de operación: migraciones goose y datos de demostración.
//
// Uso:
//
//	go run ./cmd/coletactl migrate up
//	go run ./cmd/coletactl seed --admin-email admin@demo.local --admin-password segredo123
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/coleta-api/internal/infrastructure/postgres"
	"github.com/jhoicas/coleta-api/pkg/config"
	"github.com/jhoicas/coleta-api/pkg/logger"
)

var (
	databaseURL string
	log         *logger.Logger

	rootCmd = &cobra.Command{
		Use:           "coletactl",
		Short:         "Ferramentas de operação da Coleta API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logger.New(logger.Config{Env: "development", Level: os.Getenv("LOG_LEVEL")})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "DSN de PostgreSQL (por defecto DATABASE_URL / DB_*)")
	rootCmd.AddCommand(migrateCmd(), seedCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openPool usa --database-url o, si está vacío, la configuración del entorno.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if databaseURL != "" {
		return postgres.NewPoolFromDSN(ctx, databaseURL)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return postgres.NewPool(ctx, cfg.DB)
}
