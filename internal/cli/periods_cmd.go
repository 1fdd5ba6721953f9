package cli

import (
	"fmt"
	"strings"

	"github.com/meltforce/rowplan/internal/models"
	"github.com/meltforce/rowplan/internal/periods"
	"github.com/spf13/cobra"
)

func newPeriodsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Inspect and scaffold periods files",
	}

	cmd.AddCommand(
		newPeriodsShowCmd(app),
		newPeriodsTemplateCmd(app),
	)

	return cmd
}

func newPeriodsShowCmd(app *App) *cobra.Command {
	var periodsPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the intensity distribution of every period",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(periodsPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			list := store.Snapshot()
			if len(list) == 0 {
				fmt.Fprintln(out, "No periods defined.")
				return nil
			}

			fmt.Fprint(out, renderPeriodTable(app, list))
			for _, p := range list {
				fmt.Fprintln(out)
				fmt.Fprintln(out, app.header(p.Name))
				fmt.Fprint(out, renderDistribution(app, p.Distribution))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&periodsPath, "periods", "", "periods file (.yaml, .toml or .json)")
	_ = cmd.MarkFlagRequired("periods")

	return cmd
}

func newPeriodsTemplateCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a starter periods file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			store := periods.NewStore()
			for range count {
				store.Add(app.now())
			}
			data, err := periods.MarshalYAML(store.Snapshot())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of periods to include")

	return cmd
}

func renderPeriodTable(app *App, list []models.TrainingPeriod) string {
	headers := []string{"Name", "Start", "End"}
	for _, in := range models.Intensities {
		headers = append(headers, string(in))
	}
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(list))
	for _, p := range list {
		row := []string{p.Name, p.StartDate, p.EndDate}
		for _, in := range models.Intensities {
			row = append(row, fmt.Sprintf("%d%%", p.Distribution[in]))
		}
		row = append(row, app.totalLabel(p.Distribution.Total()))
		rows = append(rows, row)
	}
	return app.table(headers, rows)
}

func renderDistribution(app *App, d models.Distribution) string {
	var b strings.Builder
	for _, in := range models.Intensities {
		fmt.Fprintf(&b, "  %-3s %s  %s\n", in, app.bar(d[in]), app.paint(styleDim, in.Meaning()))
	}
	fmt.Fprintf(&b, "  Total %s\n", app.totalLabel(d.Total()))
	return b.String()
}
