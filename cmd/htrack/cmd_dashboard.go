package main

import (
	"context"
	"fmt"

	"htrack/internal/dashboard"
	"htrack/internal/logging"

	"github.com/spf13/cobra"
)

func (c *cli) loader() *dashboard.Loader {
	return dashboard.NewLoader(c.client, c.msgs, c.logger.For(logging.CategoryDashboard), dashboard.Options{
		TrendDays:          c.cfg.Dashboard.TrendDays,
		CorrelationDays:    c.cfg.Dashboard.CorrelationDays,
		MaxCorrelationRows: c.cfg.Dashboard.MaxCorrelationRows,
		Location:           c.cfg.GetLocation(),
	})
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's meals, health trends and food correlations",
		Long: `Loads the three dashboard panels concurrently. A panel that fails to
load shows its own error; the others still render.`,
		Args: cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.requireSession(ctx); err != nil {
				return err
			}
			d := c.loader().Load(ctx, nil)
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer().Dashboard(d))
			return nil
		}),
	}
}

func (c *cli) insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show sleep analysis and suspected trigger foods",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.requireSession(ctx); err != nil {
				return err
			}
			in := c.loader().LoadInsights(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer().Insights(in))
			return nil
		}),
	}
}

func (c *cli) foodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "foods",
		Short: "List the food catalog",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.requireSession(ctx); err != nil {
				return err
			}
			foods, err := c.client.ListFoods(ctx)
			if err != nil {
				return fmt.Errorf("list foods: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), c.renderer().Foods(foods))
			return nil
		}),
	}
}
