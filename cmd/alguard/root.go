package alguard

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/logging"
)

var (
	flagJSON     bool
	flagSARIF    bool
	flagThreads  int
	flagFailOn   string
	flagNoColor  bool
	flagLogLevel string
	flagLogJSON  bool

	version = "0.1.0"

	logger logrus.FieldLogger = logging.Discard()
)

// exitError carries a process exit code without an error message, e.g. when
// findings trip --fail-on.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// rootCmd is the base Cobra command for the alguard CLI.
var rootCmd = &cobra.Command{
	Use:           "alguard",
	Short:         "Review AL (Business Central) sources",
	Long:          "alguard checks AL objects, triggers and procedures against a configurable rule set and turns findings into reviewable edits.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := flagLogLevel
		if level == "" {
			level = os.Getenv("ALGUARD_LOG_LEVEL")
		}
		logger = logging.New(level, flagLogJSON, os.Stderr)
	},
}

// Execute runs the alguard CLI. It should be called by the main package.
func Execute() {
	// a project-local .env may set ALGUARD_* variables
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "fail on blocker|major|minor|info|none (default major)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (env ALGUARD_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "write logs as JSON")
}
