package cmd

import (
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/render"
	"github.com/KaramelBytes/womenmatters/internal/utils"
	"github.com/spf13/cobra"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the filter values available in the cleaned dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cleaned, _, err := openSource().Cleaned()
		if err != nil {
			return err
		}
		opt := filter.OptionsFor(cleaned)
		defaults := filter.Defaults(opt, cfg.DefaultCountryCount)

		out := cmd.OutOrStdout()
		if optionsJSON {
			b, err := utils.PrettyJSON(map[string]any{"options": opt, "defaults": defaults})
			if err != nil {
				return err
			}
			_, err = out.Write(append(b, '\n'))
			return err
		}
		return render.OptionsTerminal(out, opt, defaults)
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "print options as JSON")
}
