package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	fieldlog "github.com/unowned-ai/fieldlog/pkg"
	"github.com/unowned-ai/fieldlog/pkg/config"
	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
)

var (
	cfg *config.AppConfig

	dbPath   string
	walMode  bool
	syncMode string
	userID   string
)

var rootCmd = &cobra.Command{
	Use:     "fieldlog",
	Short:   "A field diary for irrigation work, with the weather recorded alongside every entry.",
	Version: fmt.Sprintf("v%s", fieldlog.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage: true,
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for fieldlog.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(fieldlog completion bash)

  Zsh:
    $ fieldlog completion zsh > "${fpath[1]}/_fieldlog"

  Fish:
    $ fieldlog completion fish > ~/.config/fish/completions/fieldlog.fish

  PowerShell:
    PS> fieldlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fieldlog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), fieldlog.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the fieldlog database",
	Long:  `Provides commands for managing the fieldlog database (SQLite file or PostgreSQL URL), including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or upgrade the diary schema to the latest version",
	Long: `Connects to the database given with --db (or FIELDLOG_DB, or the per-OS default path)
and brings the diary component up to the current application schema version.
An empty or missing database is created and initialized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := resolveDSN()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading diary schema in %s (WAL: %t, Sync: %s)\n", pkgdb.RedactDSN(dsn), walMode, syncMode)

		dbConn, err := pkgdb.Open(dsn, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, dsn, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DB, "SQLite database path or postgres:// URL (default: FIELDLOG_DB, then a per-OS location)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", cfg.UserID, "User the entries belong to (default: FIELDLOG_USER_ID, then $USER)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initEntriesCmd()
	initWeatherCmd()
	initServeCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, entriesCmd, weatherCmd, captureCmd, mcpCmd, serveCmd)
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
