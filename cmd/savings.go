package cmd

import (
	"fmt"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"

	"github.com/spf13/cobra"
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Illustrative potential savings per bucket",
	RunE:  runSavings,
}

func init() {
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(_ *cobra.Command, _ []string) error {
	result, rnd, err := loadData()
	if err != nil {
		return err
	}

	estimates := forecast.EstimateAllSavings(rnd, result.Snapshot)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ESTALVI POTENCIAL"))
	fmt.Println()

	rows := make([][]string, 0, len(estimates))
	for _, e := range estimates {
		p := config.Profile(e.Bucket)
		label := p.Label
		if result.Snapshot.Series(e.Bucket).Source == model.SourceSynthetic {
			label += " ~"
		}
		rows = append(rows, []string{
			label,
			cli.FormatAmount(e.Baseline, p.Unit),
			fmt.Sprintf("%.1f%%", e.Percent),
			fmt.Sprintf("%.0f-%.0f%%", p.Savings.Min, p.Savings.Max),
			cli.FormatAmount(e.Amount, p.Unit),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Bucket", "Baseline", "Savings", "Range", "Amount"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(cli.RenderNote("Estimates are illustrative random draws within each range."))
	return nil
}
