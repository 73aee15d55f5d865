package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grahms/blocktag"
	"github.com/grahms/blocktag/internal/history"
	"github.com/grahms/blocktag/internal/report"
)

func newRunCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count frequencies, tag instructions and score against the gold standard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ins, err := a.loadInstructions()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Extracting absolute frequencies of tokens and bigrams...")
			if !force && exists(a.cfg.Tokens) && exists(a.cfg.Bigrams) {
				fmt.Fprintf(out, "%s and %s already generated.\n", a.cfg.Tokens, a.cfg.Bigrams)
			} else if err := a.writeFrequencies(ins); err != nil {
				return err
			}

			fmt.Fprintln(out, "Tagging block numbers...")
			tags, err := a.tag(ins)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Block numbers of instructions successfully tagged. Results in %s.\n", a.cfg.Results)

			return a.score(cmd, ins, tags)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "regenerate frequency files even if they exist")
	return cmd
}

func newTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag",
		Short: "Tag goal and area blocks and write the results file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := a.loadInstructions()
			if err != nil {
				return err
			}
			tags, err := a.tag(ins)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged %d instructions. Results in %s.\n", tags.Len(), a.cfg.Results)
			return nil
		},
	}
}

func newFreqCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "freq",
		Short: "Write token and bigram absolute frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := a.loadInstructions()
			if err != nil {
				return err
			}
			if err := a.writeFrequencies(ins); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Frequencies written to %s and %s.\n", a.cfg.Tokens, a.cfg.Bigrams)
			return nil
		},
	}
}

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Tag instructions and print precision, recall and F1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := a.loadInstructions()
			if err != nil {
				return err
			}
			tags, err := blocktag.NewTagger(blocktag.WithLogger(a.logger)).TagAll(blocktag.RawLines(ins))
			if err != nil {
				return err
			}
			return a.score(cmd, ins, tags)
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded evaluation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cmd.Context(), a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tDENOMINATOR\tPRECISION\tRECALL\tF1")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\t%.4f\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Denominator,
					r.Scores.Precision, r.Scores.Recall, r.Scores.F1)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list (0 for all)")
	return cmd
}

func (a *app) loadInstructions() ([]blocktag.Instruction, error) {
	return blocktag.LoadInstructions(a.cfg.Instructions, blocktag.WithLoaderLogger(a.logger))
}

func (a *app) writeFrequencies(ins []blocktag.Instruction) error {
	norm := blocktag.NormalizedLines(ins)
	if err := blocktag.WriteBigramFrequenciesFile(a.cfg.Bigrams, blocktag.CountBigrams(norm)); err != nil {
		return err
	}
	return blocktag.WriteTokenFrequenciesFile(a.cfg.Tokens, blocktag.CountTokens(norm))
}

func (a *app) tag(ins []blocktag.Instruction) (*blocktag.Tags, error) {
	tags, err := blocktag.NewTagger(blocktag.WithLogger(a.logger)).TagAll(blocktag.RawLines(ins))
	if err != nil {
		return nil, err
	}
	if err := blocktag.WriteTagsFile(a.cfg.Results, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (a *app) score(cmd *cobra.Command, ins []blocktag.Instruction, tags *blocktag.Tags) error {
	opts := []func(*blocktag.Scorer){
		blocktag.WithDenominator(a.cfg.Denominator),
		blocktag.WithDivisionPolicy(a.cfg.Division),
		blocktag.WithScorerLogger(a.logger),
	}
	if a.cfg.Validate {
		opts = append(opts, blocktag.WithGoldValidators(blocktag.DefaultGoldValidators()))
	}
	scores, err := blocktag.NewScorer(opts...).ScoreFile(tags, a.cfg.Gold)
	if err != nil {
		a.logger.Error("scoring failed", zap.String("gold", a.cfg.Gold), zap.Error(err))
		return err
	}

	rep := report.Report{
		Instructions: a.cfg.Instructions,
		Gold:         a.cfg.Gold,
		Lines:        len(ins),
		Tagged:       tags.Len(),
		Denominator:  a.cfg.Denominator.String(),
		Scores:       scores,
	}

	if a.cfg.HistoryEnabled {
		store, err := history.Open(cmd.Context(), a.cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		run, err := store.Record(cmd.Context(), history.Run{
			Instructions: rep.Instructions,
			Gold:         rep.Gold,
			Denominator:  rep.Denominator,
			Tagged:       rep.Tagged,
			Scores:       scores,
		})
		if err != nil {
			return err
		}
		rep.RunID = run.ID
		a.logger.Debug("run recorded", zap.String("id", run.ID), zap.String("db", a.cfg.HistoryPath))
	}

	return report.Write(cmd.OutOrStdout(), a.cfg.Format, rep)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
