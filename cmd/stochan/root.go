package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/stochan/logging"
	"github.com/RyanBlaney/stochan/models"
	"github.com/RyanBlaney/stochan/process"
	"github.com/RyanBlaney/stochan/process/config"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

// Output formats
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type rootOptions struct {
	configFile string
	output     string
	verbose    bool
}

// NewRootCmd creates the stochan command with all subcommands
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "stochan",
		Short: "Analyse stationary stochastic processes",
		Long: `Analyse stationary stochastic processes from a session file.

A session names a closed-form covariance/spectrum model, the analysis
domains and the transform methods to compare. Every key can be overridden
from the environment with the STOCHAN_ prefix, e.g. STOCHAN_SAMPLES=200.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != formatYAML && opts.output != formatJSON {
				return fmt.Errorf("unknown output format %q (want %s or %s)", opts.output, formatYAML, formatJSON)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Session file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatYAML, "Output format: yaml or json")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every analysis step")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newMomentsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "stochan", version)
		},
	}
}

// loadSession reads the session and builds a logger writing to stderr, so
// that stdout only carries the encoded result
func (o *rootOptions) loadSession(cmd *cobra.Command) (*config.Session, logging.Logger, error) {
	session, err := config.LoadSession(o.configFile)
	if err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(cmd.ErrOrStderr()), zapcore.DebugLevel)

	logger := logging.NewLoggerFromZap(zap.New(core))
	logger.SetLevel(logging.ParseLevel(session.Analysis.LogLevel))
	if o.verbose {
		logger.SetLevel(logging.DebugLevel)
	}

	ctx := logging.ContextWithFields(cmd.Context(), logging.Fields{
		"command": cmd.Name(),
		"session": session.Name,
	})
	return session, logger.WithContext(ctx), nil
}

// newAnalyzer builds an analyzer for the session's model
func newAnalyzer(session *config.Session, logger logging.Logger) (*process.Analyzer, models.Pair, error) {
	pair, err := models.New(session.Model)
	if err != nil {
		return nil, nil, err
	}

	a, err := process.New(session.Analysis,
		process.WithName(session.Name),
		process.WithModel(pair),
		process.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	return a, pair, nil
}

func (o *rootOptions) encode(w io.Writer, v any) error {
	switch o.output {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
