// Command pgproto3cli is a thin demonstration client built on the
// pgproto3 library: it drives real handshake/query/copy flows against
// a live PostgreSQL server using nothing but Session and Parser.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/driftwire/pgproto3/internal/config"
	"github.com/driftwire/pgproto3/pkg/logger"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pgproto3cli",
	Short: "A sans-I/O PostgreSQL wire protocol client",
	Long: `pgproto3cli drives the PostgreSQL frontend/backend protocol (v3.0)
over a real TCP connection using the pgproto3 library: it owns no protocol
logic of its own, only the socket and a command loop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pgproto3cli %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run one SQL statement via the simple query protocol",
	Long:  `Connects, authenticates, sends Query, and prints every DataRow until CommandComplete.`,
	Example: `  pgproto3cli query "select 1" --host localhost --user postgres
  pgproto3cli query "select * from pg_stat_activity" --database postgres`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Authenticate and print asynchronous backend events as they arrive",
	Long:  `Connects and authenticates, then idles, printing each notification, notice, error, parameter_status and ready_for_query event — useful for watching NotificationResponse (LISTEN/NOTIFY) traffic.`,
	Example: `  pgproto3cli watch --host localhost --user postgres`,
	RunE: runWatch,
}

var copyCmd = &cobra.Command{
	Use:   "copy <table> <file>",
	Short: "COPY a newline-delimited, tab-separated file into a table",
	Long:  `Issues "COPY <table> FROM STDIN", then streams file rows as CopyData.`,
	Example: `  pgproto3cli copy events ./events.tsv --host localhost --user postgres`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

var (
	flagHost     string
	flagPort     int
	flagUser     string
	flagDatabase string
	flagPassword string
	flagConfig   string
	flagLogLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "server host (default from config, falls back to localhost)")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 0, "server port (default from config, falls back to 5432)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "connection user")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "database", "", "database name")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "connection password (prompted if omitted and the server requests one)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: $HOME/.pgproto3cli/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error; default from config, falls back to info)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(copyCmd)
}

// loadConfig merges the persistent flags over the on-disk/env-layered
// config, flags taking precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if err := logger.Init(logger.Config{Level: level, Format: cfg.Log.Format, File: cfg.Log.File}); err != nil {
		return nil, fmt.Errorf("pgproto3cli: %w", err)
	}

	if flagHost != "" {
		cfg.Conn.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Conn.Port = flagPort
	}
	if flagUser != "" {
		cfg.Conn.User = flagUser
	}
	if flagDatabase != "" {
		cfg.Conn.Database = flagDatabase
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pgproto3cli: %w", err)
	}
	return cfg, nil
}
