// Package cmd provides the root command and CLI setup for f2fguard.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	"github.com/mouse-blink/f2fguard/internal/config"
	"github.com/mouse-blink/f2fguard/internal/controller"
	"github.com/mouse-blink/f2fguard/internal/domain"
	"github.com/mouse-blink/f2fguard/internal/logger"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var pyAdapter adapter.PythonFileAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var baseLogger *zap.Logger

// settings holds the configuration file merged with command line overrides.
var settings *config.Config

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	pyAdapter = adapter.NewLocalPythonFileAdapter()
	reportStore = adapter.NewReportStore()
}

var configFileFlag string
var reportsOutputDirFlag string
var logLevelFlag string
var logFormatFlag string
var namespaceFlag string
var prefixFlag string
var targetKeywordFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

const rootLongDescription = `f2fguard checks that every annotated parameter of a Python function is
passed to exactly the validators its type annotation calls for, for
example F2F.validate_Int(x) for a parameter declared as x: int.

Nothing is imported or executed: annotations and call sites are read from
the source text.

Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - a.py b.py      check individual files`

func newRootCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:               "f2fguard [paths...]",
		Short:             "Validation coverage checker for Python",
		Long:              rootLongDescription,
		SilenceUsage:      true,
		PersistentPreRunE: prepare,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&configFileFlag, "config", config.DefaultConfigFile, "path to the YAML configuration file")
	persistent.StringVar(&reportsOutputDirFlag, "reports", config.DefaultReportsDir, "directory where check reports are stored")
	persistent.StringVar(&logLevelFlag, "log-level", string(logger.WarnLevel), "log level (debug, info, warn, error)")
	persistent.StringVar(&logFormatFlag, "log-format", string(logger.FormatConsole), "log format (console, json)")
	persistent.StringVar(&namespaceFlag, "namespace", "", "object the validators are called on (default F2F)")
	persistent.StringVar(&prefixFlag, "prefix", "", "validator name prefix (default validate_)")
	persistent.StringVar(&targetKeywordFlag, "target-keyword", "", "keyword naming the validated argument (default target)")

	bindCheckFlags(cmd, opts)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It exits 1 when units failed the check and 2
// on usage or configuration errors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)

	stop()

	if baseLogger != nil {
		_ = baseLogger.Sync()
	}

	if err == nil {
		return
	}

	if isCheckFailure(err) {
		os.Exit(1)
	}

	os.Exit(2)
}

// prepare merges the configuration file with flags and builds the workflow
// unless one was already provided.
func prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	settings = cfg

	if workflow == nil {
		baseLogger = logger.New(logger.LogLevel(cfg.Log.Level), logger.ParseFormat(cfg.Log.Format))
		ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
		workflow = domain.NewWorkflow(fsAdapter, pyAdapter, reportStore, ui, baseLogger.Sugar())
	}

	return nil
}

func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	var (
		cfg *config.Config
		err error
	)

	if flags.Changed("config") {
		cfg, err = config.NewManager().LoadConfig(configFileFlag)
	} else {
		cfg, err = config.LoadConfigWithFallback(configFileFlag)
	}

	if err != nil {
		return nil, err
	}

	if flags.Changed("reports") {
		cfg.Reports = reportsOutputDirFlag
	}

	if flags.Changed("log-level") {
		cfg.Log.Level = logLevelFlag
	}

	if flags.Changed("log-format") {
		cfg.Log.Format = logFormatFlag
	}

	if flags.Changed("namespace") {
		cfg.Validator.Namespace = namespaceFlag
	}

	if flags.Changed("prefix") {
		cfg.Validator.Prefix = prefixFlag
	}

	if flags.Changed("target-keyword") {
		cfg.Validator.TargetKeyword = targetKeywordFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// currentSettings returns the merged settings, or the defaults when a
// command runs without the root pre-run hook.
func currentSettings() *config.Config {
	if settings == nil {
		return config.NewManager().DefaultConfig()
	}

	return settings
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"./..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// isCheckFailure reports whether err only signals failed units rather than
// a usage or configuration problem.
func isCheckFailure(err error) bool {
	return errors.Is(err, domain.ErrCheckFailed)
}
