package cmd

import (
	"fmt"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagPeriod string
	flagStart  string
	flagEnd    string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Project consumption for a period",
	Long: "Project each bucket's baseline over nextYear, nextCourse (September to June)\n" +
		"or a custom --start/--end range.",
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&flagPeriod, "period", "p", "", "nextYear, nextCourse or custom (default from config)")
	predictCmd.Flags().StringVar(&flagStart, "start", "", "Custom period start date")
	predictCmd.Flags().StringVar(&flagEnd, "end", "", "Custom period end date")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(_ *cobra.Command, _ []string) error {
	name := flagPeriod
	if name == "" {
		name = loadConfig().General.DefaultPeriod
		if flagStart != "" || flagEnd != "" {
			name = forecast.Custom.String()
		}
	}

	// Validate before loading so a bad range fails fast.
	period, err := forecast.ParsePeriod(name, flagStart, flagEnd)
	if err != nil {
		return err
	}

	result, rnd, err := loadData()
	if err != nil {
		return err
	}

	preds, err := forecast.New(rnd).PredictAll(result.Snapshot, period)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PREVISIÓ  " + period.String()))
	fmt.Println()
	if period.Kind == forecast.Custom {
		fmt.Printf("  %d days, ratio %.3f, seasonal factor %.2f\n\n",
			period.Days(), period.Ratio(), period.SeasonalFactor())
	}

	rows := make([][]string, 0, len(preds))
	for _, p := range preds {
		prof := config.Profile(p.Bucket)
		label := prof.Label
		if result.Snapshot.Series(p.Bucket).Source == model.SourceSynthetic {
			label += " ~"
		}
		rows = append(rows, []string{
			label,
			cli.FormatAmount(p.Baseline, prof.Unit),
			cli.FormatAmount(p.Reference, prof.Unit),
			cli.FormatAmount(p.PredictedValue, prof.Unit),
			cli.ColorChange(p.PercentChangeVsBaseline, cli.FormatChange(p.PercentChangeVsBaseline)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Bucket", "Baseline", "Reference", "Predicted", "Change"},
		Rows:    rows,
	}))
	return nil
}
