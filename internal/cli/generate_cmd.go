package cli

import (
	"fmt"

	"github.com/meltforce/rowplan/internal/client"
	"github.com/meltforce/rowplan/internal/csvexport"
	"github.com/meltforce/rowplan/internal/models"
	"github.com/meltforce/rowplan/internal/periods"
	"github.com/spf13/cobra"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		serverURL   string
		periodsPath string
		outDir      string
		format      string
		timeout     = client.DefaultTimeout
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a workout schedule and download it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatCSV && format != formatXLSX {
				return fmt.Errorf("unsupported format %q (csv or xlsx)", format)
			}

			store, err := loadStore(periodsPath)
			if err != nil {
				return err
			}
			for _, w := range store.Warnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), app.paint(styleYellow, "warning: "+w.String()))
			}

			c := client.NewClient(serverURL, timeout)
			workouts, err := c.GenerateWorkouts(cmd.Context(), store.Request().Periods)
			if err != nil {
				return err
			}

			path, err := writePlan(format, outDir, workouts, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, app.paint(styleGreen, fmt.Sprintf("%d workouts generated and downloaded!", len(workouts))))
			fmt.Fprintln(out, app.paint(styleDim, path))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "rowplan server URL")
	cmd.Flags().StringVar(&periodsPath, "periods", "", "periods file (.yaml, .toml or .json)")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the plan into")
	cmd.Flags().StringVar(&format, "format", formatCSV, "output format: csv or xlsx")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")
	_ = cmd.MarkFlagRequired("periods")

	return cmd
}

func loadStore(path string) (*periods.Store, error) {
	list, err := periods.LoadFile(path)
	if err != nil {
		return nil, err
	}
	store := periods.NewStore()
	store.Load(list)
	return store, nil
}

// writePlan reads the clock only after the reply arrived so the filename
// carries the download date.
func writePlan(format, dir string, workouts models.WorkoutPlan, app *App) (string, error) {
	if format == formatXLSX {
		return csvexport.WriteXLSXFile(dir, workouts, app.now())
	}
	return csvexport.WriteFile(dir, workouts, app.now())
}
