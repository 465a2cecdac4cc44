package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tableorder/configs"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tableorder",
		Short:         "Restaurant table ordering backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// serve
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP and websocket server",
		Aliases: []string{"start"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)

	// migrate
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			db, err := configs.ConnectionDB(cfg)
			if err != nil {
				return err
			}
			return configs.SetupDatabase(db)
		},
	}
	rootCmd.AddCommand(migrateCmd)

	// seed
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample menu and tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			tables, _ := cmd.Flags().GetInt("tables")
			reset, _ := cmd.Flags().GetBool("reset")
			if tables < 0 {
				return fmt.Errorf("--tables must not be negative")
			}

			db, err := configs.ConnectionDB(cfg)
			if err != nil {
				return err
			}
			if err := configs.SetupDatabase(db); err != nil {
				return err
			}
			if err := configs.SeedSample(db, cfg.ClientURL, tables, reset); err != nil {
				return err
			}
			return configs.SeedAdmin(db, cfg)
		},
	}
	seedCmd.Flags().Int("tables", 20, "Number of tables to create")
	seedCmd.Flags().Bool("reset", false, "Delete existing menu, tables and orders first")
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func load(cmd *cobra.Command) (*configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port = f.Value.String()
	}
	configs.NewLogger(cfg)
	return cfg, nil
}
