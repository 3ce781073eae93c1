package cmd

import (
	"fmt"
	"math"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [office|cleaning]",
	Short: "Category totals for office supplies and cleaning products",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func isCategoryBucket(b model.Bucket) bool { return !b.IsMonthly() }

func runCategories(_ *cobra.Command, args []string) error {
	buckets, err := bucketArg(args, isCategoryBucket)
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

		labels := s.Categories.Labels()
		if len(labels) == 0 {
			fmt.Println("  No category data.")
			continue
		}

		labelW := 0
		peak := 0.0
		for _, l := range labels {
			labelW = max(labelW, lipgloss.Width(l))
			if v := s.Categories[l]; !math.IsNaN(v) {
				peak = math.Max(peak, v)
			}
		}

		total := s.Total()
		for _, l := range labels {
			v := s.Categories[l]
			share := 0.0
			if total != 0 {
				share = v / total
			}
			caption := fmt.Sprintf("%s  %s", cli.FormatAmount(v, p.Unit), cli.FormatPercent(share))
			fmt.Println(cli.RenderHorizontalBar(l, labelW, v, peak, 30, caption))
		}
		fmt.Printf("\n  Total  %s\n", cli.FormatAmount(total, p.Unit))
	}
	return nil
}
