package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/render"
	"github.com/KaramelBytes/womenmatters/internal/session"
	"github.com/KaramelBytes/womenmatters/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportYearMin      int
	reportYearMax      int
	reportCountries    []string
	reportGenders      []string
	reportDemographics []string
	reportFilters      string
	reportDefaults     bool
	reportAll          bool
	reportFormat       string
	reportOutput       string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Apply filters and print every dashboard chart",
	Long: `Builds the dashboard for the cleaned dataset. Without filter flags the full
cleaned dataset is shown. Any filter flag applies a selection that starts
from the sidebar defaults (full year range, first countries, every gender and
demographics question) and replaces the fields you pass.`,
	Example: `  womenmatters report
  womenmatters report --country Afghanistan --country Chad --year-min 2010
  womenmatters report --filters filters.yaml --format markdown -o report.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := render.ParseFormat(reportFormat)
		if err != nil {
			return err
		}

		s, err := session.New(openSource(), sessionOptions())
		if err != nil {
			return err
		}
		p, apply, err := reportParams(cmd, s.Options())
		if err != nil {
			return err
		}
		if apply {
			res, err := s.Apply(p)
			if err != nil {
				return err
			}
			logger.Debug("report filters applied", zap.Int("records", res.Records), zap.Bool("empty", res.Empty))
		}

		r := render.NewReport(s)
		if reportOutput == "" {
			return render.Write(cmd.OutOrStdout(), f, r)
		}
		var buf bytes.Buffer
		if err := render.Write(&buf, f, r); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(reportOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		out := cmd.OutOrStdout()
		if r.Message != "" {
			fmt.Fprintln(out, r.Message)
		}
		fmt.Fprintf(out, "✓ Wrote report to %s\n", reportOutput)
		return nil
	},
}

// reportParams resolves the selection from --filters, --all, --defaults and
// the individual filter flags. apply is false when none were given.
func reportParams(cmd *cobra.Command, opt filter.Options) (p filter.Params, apply bool, err error) {
	flags := cmd.Flags()
	if reportFilters != "" {
		p, err = filter.LoadParams(reportFilters)
		return p, err == nil, err
	}

	if reportAll {
		p = filter.All(opt)
	} else {
		p = filter.Defaults(opt, cfg.DefaultCountryCount)
	}
	apply = reportAll || reportDefaults
	if flags.Changed("year-min") {
		p.YearMin, apply = reportYearMin, true
	}
	if flags.Changed("year-max") {
		p.YearMax, apply = reportYearMax, true
	}
	if flags.Changed("country") {
		p.Countries, apply = selection(reportCountries), true
	}
	if flags.Changed("gender") {
		p.Genders, apply = selection(reportGenders), true
	}
	if flags.Changed("demographics") {
		p.DemographicsQuestions, apply = selection(reportDemographics), true
	}
	if !apply {
		return filter.Params{}, false, nil
	}
	return p, true, p.Validate()
}

// selection drops blank flag values, so --gender= selects no genders.
func selection(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportYearMin, "year-min", 0, "lowest survey year (inclusive)")
	reportCmd.Flags().IntVar(&reportYearMax, "year-max", 0, "highest survey year (inclusive)")
	reportCmd.Flags().StringArrayVar(&reportCountries, "country", nil, "country to include (repeatable)")
	reportCmd.Flags().StringArrayVar(&reportGenders, "gender", nil, "gender to include (repeatable)")
	reportCmd.Flags().StringArrayVar(&reportDemographics, "demographics", nil, "demographics question to include (repeatable)")
	reportCmd.Flags().StringVar(&reportFilters, "filters", "", "YAML file with year_min, year_max, countries, genders, demographics_questions")
	reportCmd.Flags().BoolVar(&reportDefaults, "defaults", false, "apply the sidebar defaults")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "select every listed option")
	reportCmd.Flags().StringVar(&reportFormat, "format", "terminal", "output format: terminal|markdown|json")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file")
	reportCmd.MarkFlagsMutuallyExclusive("filters", "all")
	reportCmd.MarkFlagsMutuallyExclusive("filters", "defaults")
	reportCmd.MarkFlagsMutuallyExclusive("all", "defaults")
}
