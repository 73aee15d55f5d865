package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/grahms/blocktag/internal/config"
	"github.com/grahms/blocktag/internal/logging"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "blocktag",
		Short: "Rule-based goal/area block tagging for robot instructions",
		Long: `blocktag reads natural-language robot instructions, tags the block
numbers in each one as goal (the block to move) or area (the reference
block) using lexical cues, writes token and bigram frequencies, and scores
the tagging against a hand-labelled gold standard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(a.v, a.cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.Debug, cfg.LogFile)
			if err != nil {
				return err
			}
			a.logger = logger
			if used := a.v.ConfigFileUsed(); used != "" {
				a.logger.Debug("using config file", zap.String("path", used))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.blocktag.yaml or $HOME/.blocktag.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-file", "", "also write log entries to this file")
	flags.String("format", "text", "report format: text, yaml or json")
	flags.StringP("instructions", "i", "instructions.txt", "instruction file, one instruction per line")
	flags.StringP("gold", "g", "gold_standard.csv", "gold standard file (<instruction>;<goal>;<areas>)")
	flags.String("results", "results.csv", "tagging output file")
	flags.String("tokens", "tokens.csv", "token frequency output file")
	flags.String("bigrams", "bigrams.csv", "bigram frequency output file")
	flags.String("denominator", "reference", "recall denominator: reference or answers")
	flags.String("division", "guarded", "zero-denominator handling: guarded or reference")
	flags.Bool("validate", false, "reject gold records whose labels are not numbers or -")
	flags.Bool("history", false, "record evaluation runs in the history database")
	flags.String("history-db", "blocktag.db", "history database path")

	for key, flag := range map[string]string{
		"debug":               "debug",
		"log.file":            "log-file",
		"format":              "format",
		"instructions":        "instructions",
		"gold":                "gold",
		"output.results":      "results",
		"output.tokens":       "tokens",
		"output.bigrams":      "bigrams",
		"scoring.denominator": "denominator",
		"scoring.division":    "division",
		"scoring.validate":    "validate",
		"history.enabled":     "history",
		"history.path":        "history-db",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	rootCmd.AddCommand(
		newRunCmd(a),
		newTagCmd(a),
		newFreqCmd(a),
		newScoreCmd(a),
		newHistoryCmd(a),
	)
	return rootCmd
}
