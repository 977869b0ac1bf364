package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"htrack/internal/forms"
	"htrack/internal/i18n"
	"htrack/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type formFactory func(forms.Deps) forms.Form

func (c *cli) logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a meal, a daily health log or a night of sleep",
	}
	cmd.AddCommand(
		c.formCmd("meal", "Log a meal with one food", func(d forms.Deps) forms.Form { return forms.NewMealForm(d) }),
		c.formCmd("health", "Log how you felt today", func(d forms.Deps) forms.Form { return forms.NewHealthLogForm(d) }),
		c.formCmd("sleep", "Log last night's sleep", func(d forms.Deps) forms.Form { return forms.NewSleepForm(d) }),
	)
	return cmd
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// formCmd exposes a form as a command with one flag per field. Unset flags
// keep the form's defaults (today's date, the current time).
func (c *cli) formCmd(use, short string, build formFactory) *cobra.Command {
	// Flags are registered before the config is read, so the help text
	// comes from an English instance of the form.
	proto := build(forms.Deps{Msgs: i18n.NewPrinter(i18n.English)})
	values := make(map[string]*string)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	for _, f := range proto.Fields() {
		v := new(string)
		values[f.Name] = v
		cmd.Flags().StringVar(v, flagName(f.Name), "", fieldUsage(f))
	}

	cmd.RunE = c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := c.requireSession(ctx); err != nil {
			return err
		}
		form := build(forms.Deps{
			API:      c.client,
			Msgs:     c.msgs,
			Logger:   c.logger.For(logging.CategoryForms),
			Location: c.cfg.GetLocation(),
			Audit:    c.logger.Audit(),
		})
		in := form.Init(ctx)
		for name, v := range values {
			if cmd.Flags().Changed(flagName(name)) {
				in[name] = *v
			}
		}
		if food, ok := in[forms.FieldFood]; ok && food != "" {
			id, err := c.resolveFood(ctx, food)
			if err != nil {
				return err
			}
			in[forms.FieldFood] = id
		}

		out, err := form.Submit(ctx, in)
		if err != nil {
			var ve *forms.ValidationError
			if errors.As(err, &ve) {
				return fmt.Errorf("%s (%s)", ve.Message, flagList(append(ve.Missing, ve.Invalid...)))
			}
			c.log.Debug("form submit failed", zap.String("form", use), zap.Error(err))
			return errors.New(out.Alert.Text)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Alert.Text)
		return nil
	})
	return cmd
}

func fieldUsage(f forms.Field) string {
	usage := f.Label
	switch f.Kind {
	case forms.KindDate:
		usage += " (YYYY-MM-DD)"
	case forms.KindTime:
		usage += " (HH:MM)"
	case forms.KindInt:
		if f.Max > 0 {
			usage += fmt.Sprintf(" (%d-%d)", f.Min, f.Max)
		}
	case forms.KindSelect:
		if f.Name == forms.FieldFood {
			usage += " (id or name, see 'htrack foods')"
			break
		}
		var opts []string
		for _, o := range f.Options {
			if o.Value != "" {
				opts = append(opts, o.Value)
			}
		}
		usage += " (" + strings.Join(opts, "|") + ")"
	}
	if f.Required {
		usage += ", required"
	}
	return usage
}

func flagList(fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = "--" + flagName(f)
	}
	return strings.Join(out, ", ")
}

// resolveFood accepts a food id or a case-insensitive food name.
func (c *cli) resolveFood(ctx context.Context, food string) (string, error) {
	if _, err := strconv.Atoi(food); err == nil {
		return food, nil
	}
	foods, err := c.client.ListFoods(ctx)
	if err != nil {
		return "", fmt.Errorf("list foods: %w", err)
	}
	for _, f := range foods {
		if strings.EqualFold(f.Name, food) {
			return strconv.Itoa(f.ID), nil
		}
	}
	return "", fmt.Errorf("unknown food %q", food)
}
