package cmd

import (
	"fmt"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-bucket totals and averages",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, _, err := loadData()
	if err != nil {
		return err
	}

	summaries := pipeline.Summarize(result.Snapshot)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CONSUM  " + result.Snapshot.SourceName))
	fmt.Println()

	rows := make([][]string, 0, len(summaries)+1)
	for _, s := range summaries {
		p := config.Profile(s.Bucket)
		label := p.Label
		if s.Source == model.SourceSynthetic {
			label += " ~"
		}

		detail := ""
		if s.Bucket.IsMonthly() {
			detail = fmt.Sprintf("%s/month over %d months", cli.FormatAmount(s.MonthlyAverage, p.Unit), s.Months)
		} else if s.TopCategory != "" {
			detail = fmt.Sprintf("top %s (%s)", s.TopCategory, cli.FormatPercent(s.TopShare))
		}

		rows = append(rows, []string{label, cli.FormatAmount(s.Total, p.Unit), detail})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Bucket", "Total", "Detail"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(cli.RenderNote("~ synthetic fallback values"))
	return nil
}
