package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/nainya/proptree/internal/config"
	"github.com/nainya/proptree/internal/logger"
	"github.com/nainya/proptree/internal/metrics"
)

// app carries the state shared by every subcommand
type app struct {
	v           *viper.Viper
	cfgFile     string
	showMetrics bool

	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:       config.New(),
		log:     logger.Nop(),
		metrics: metrics.NewMetrics(),
	}

	root := &cobra.Command{
		Use:   "ptree",
		Short: "Inspect, edit, convert and diff typed property trees",
		Long: `ptree works with property trees: hierarchical documents of named, typed,
indexed values. Trees are read and written as JSON, YAML or protobuf,
chosen from the file extension unless a format flag is given.`,
		Version:      getVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.showMetrics {
				return nil
			}
			text, err := a.metrics.Text()
			if err != nil {
				return err
			}
			_, err = cmd.ErrOrStderr().Write(text)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./.ptree.yaml or $HOME/.ptree.yaml)")
	pf.String(config.KeyLogLevel, "disabled", "log level (debug, info, warn, error, disabled)")
	pf.Bool(config.KeyLogPretty, true, "human-readable console logs")
	pf.StringP(config.KeyOutput, "o", "text", "output format (text, json, yaml)")
	pf.BoolVar(&a.showMetrics, "metrics", false, "print collected metrics to stderr on exit")
	_ = config.BindFlags(a.v, pf)

	root.AddCommand(
		newValidateCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newRemoveCmd(a),
		newDiffCmd(a),
		newConvertCmd(a),
		newSchemaCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
	)
	return root
}

// init reads the config file and environment, then builds the logger
func (a *app) init() error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger.InitGlobalLogger(cfg.LoggerConfig())
	a.log = logger.GetGlobalLogger()
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("Using config file").Str("file", used).Send()
	}
	return nil
}

// render writes v as JSON or YAML when requested, otherwise calls text
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.cfg.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(w)
}

// getVersion returns the version information
func getVersion() string {
	var (
		version = "dev"
		commit  = "unknown"
	)
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
