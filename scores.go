package main

import (
	"encoding/json"
	"os"

	"hirewise/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScoresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Inspect and recompute provider reliability scores",
	}
	cmd.AddCommand(newScoresRefreshCommand(), newScoresTrendCommand(), newScoresShowCommand())
	return cmd
}

func newScoresRefreshCommand() *cobra.Command {
	var providerID string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute and persist scores for one provider or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.GetLogger()
			a, err := bootstrap(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if providerID != "" {
				score, err := a.scores.UpdateProviderScore(cmd.Context(), providerID)
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"providerId": providerID, "score": score})
			}
			summary, err := a.scores.UpdateAllScores(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("score sweep finished", zap.Int("updated", summary.Updated), zap.Int("failed", summary.Failed))
			return printJSON(summary)
		},
	}
	cmd.Flags().StringVar(&providerID, "provider", "", "refresh a single provider")
	return cmd
}

func newScoresShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <providerId>",
		Short: "Print the score breakdown without persisting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), utils.GetLogger())
			if err != nil {
				return err
			}
			defer a.Close()

			breakdown, err := a.scores.ComputeBreakdown(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(breakdown)
		},
	}
}

func newScoresTrendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trend <providerId>",
		Short: "Print the reliability trend prediction for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), utils.GetLogger())
			if err != nil {
				return err
			}
			defer a.Close()

			trend, err := a.scores.PredictTrend(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(trend)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
