package cmd

import (
	"fmt"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly [electric|water]",
	Short: "Monthly averages for electricity and water",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, args []string) error {
	buckets, err := bucketArg(args, model.Bucket.IsMonthly)
	if err != nil {
		return err
	}

	result, _, err := loadData()
	if err != nil {
		return err
	}

	for _, b := range buckets {
		s := result.Snapshot.Series(b)
		p := config.Profile(b)

		title := p.Label
		if s.Source == model.SourceSynthetic {
			title += "  (synthetic)"
		}
		fmt.Println()
		fmt.Println(cli.RenderTitle(title))
		fmt.Println()

		if len(s.Monthly) == 0 {
			fmt.Println("  No monthly data.")
			continue
		}

		values := make([]float64, 0, len(s.Monthly))
		rows := make([][]string, 0, len(s.Monthly)+2)
		for _, m := range s.Monthly {
			values = append(values, m.Value)
			rows = append(rows, []string{
				fmt.Sprintf("%s %d", m.MonthName, m.Year),
				cli.FormatAmount(m.Value, p.Unit),
			})
		}
		rows = append(rows, []string{"---"}, []string{"Total", cli.FormatAmount(s.Total(), p.Unit)})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Month", "Mean (" + p.Unit + ")"},
			Rows:    rows,
		}))
		fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(values))
	}
	return nil
}
