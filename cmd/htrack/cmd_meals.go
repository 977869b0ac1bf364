package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"htrack/internal/history"
	"htrack/internal/i18n"
	"htrack/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadHistory builds the meal-history component over the session store so the
// CLI and the interactive UI share the saved filter.
func (c *cli) loadHistory(ctx context.Context) (*history.History, error) {
	if err := c.requireSession(ctx); err != nil {
		return nil, err
	}
	h := history.New(c.client, c.msgs, c.logger.For(logging.CategoryHistory), c.kv, history.Options{
		PageSize: c.cfg.UI.PageSize,
		Location: c.cfg.GetLocation(),
		PDFFont:  c.cfg.Export.PDFFont,
		Audit:    c.logger.Audit(),
	})
	h.Restore(ctx)
	if err := h.Load(ctx); err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}
	return h, nil
}

func (c *cli) mealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Browse, export and share meal history",
	}
	cmd.AddCommand(
		c.mealsListCmd(),
		c.mealsDeleteCmd(),
		c.mealsExportCmd(),
		c.mealsShareCmd(),
		c.mealsAnalyzeCmd(),
	)
	return cmd
}

// filterFlags are shared by every meals subcommand that works on the
// filtered list. Set flags replace the saved filter.
type filterFlags struct {
	date, from, to, food string
	types                []string
	clear                bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Only meals on this day (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "Meal types (breakfast, lunch, dinner, snack)")
	cmd.Flags().StringVar(&f.from, "from", "", "First day of a date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day of a date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.food, "food", "", "Food name search")
	cmd.Flags().BoolVar(&f.clear, "clear", false, "Clear the saved filter")
}

func (f *filterFlags) apply(ctx context.Context, cmd *cobra.Command, h *history.History) {
	if f.clear {
		h.ClearFilter(ctx)
	}
	changed := false
	for _, name := range []string{"date", "type", "from", "to", "food"} {
		if cmd.Flags().Changed(name) {
			changed = true
		}
	}
	if !changed {
		return
	}
	q := url.Values{
		history.ParamDate: {f.date},
		history.ParamFrom: {f.from},
		history.ParamTo:   {f.to},
		history.ParamFood: {f.food},
	}
	if len(f.types) > 0 {
		q[history.ParamMealType] = []string{strings.Join(f.types, ",")}
	}
	h.SetFilter(ctx, history.FilterFromQuery(q))
}

func (c *cli) mealsListCmd() *cobra.Command {
	var (
		filter filterFlags
		page   int
		grid   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meals matching the saved or given filter",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			h, err := c.loadHistory(ctx)
			if err != nil {
				return err
			}
			filter.apply(ctx, cmd, h)
			if grid {
				h.SetView(history.ViewGrid)
			}
			h.SetPage(page - 1)

			r := c.renderer()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, r.FilterSummary(h.Filter()))
			fmt.Fprintln(out, r.History(h.Snapshot(), -1))
			return nil
		}),
	}
	filter.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&grid, "grid", false, "Show meals as a grid of cards")
	return cmd
}

func (c *cli) mealsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a meal",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid meal id %q", args[0])
			}
			h, err := c.loadHistory(ctx)
			if err != nil {
				return err
			}
			if err := h.RequestDelete(id); err != nil {
				return err
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", c.msgs.T(i18n.MsgConfirmDelete))
				answer, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					h.CancelDelete()
					return nil
				}
			}
			alert, err := h.ConfirmDelete(ctx)
			if err != nil {
				c.log.Debug("delete failed", zap.Int("meal_id", id), zap.Error(err))
				return errors.New(alert.Text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), alert.Text)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *cli) mealsExportCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Export the filtered meals to a .csv or .pdf file",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			h, err := c.loadHistory(ctx)
			if err != nil {
				return err
			}
			filter.apply(ctx, cmd, h)
			alert, err := h.ExportFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", alert.Text, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), alert.Text)
			return nil
		}),
	}
	filter.register(cmd)
	return cmd
}

func (c *cli) mealsShareCmd() *cobra.Command {
	var (
		filter  filterFlags
		email   string
		expires string
	)
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share the filtered meals with a healthcare provider",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			h, err := c.loadHistory(ctx)
			if err != nil {
				return err
			}
			filter.apply(ctx, cmd, h)
			if expires == "" {
				expires = time.Now().In(c.cfg.GetLocation()).AddDate(0, 0, 7).Format("2006-01-02")
			}
			link, alert, err := h.Share(ctx, email, expires)
			if err != nil {
				return errors.New(alert.Text)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, alert.Text)
			fmt.Fprintln(out, c.msgs.T(i18n.MsgShareLink, link))
			return nil
		}),
	}
	filter.register(cmd)
	cmd.Flags().StringVar(&email, "email", "", "Recipient email address")
	cmd.Flags().StringVar(&expires, "expires", "", "Expiration date (YYYY-MM-DD, default in a week)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) mealsAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Show meal pattern statistics",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.requireSession(ctx); err != nil {
				return err
			}
			h := history.New(c.client, c.msgs, c.logger.For(logging.CategoryHistory), nil, history.Options{})
			p, err := h.Analyze(ctx)
			if err != nil {
				c.log.Debug("analyze failed", zap.Error(err))
				return errors.New(c.msgs.T(i18n.MsgAnalyzeFailed))
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer().Patterns(p))
			return nil
		}),
	}
}
