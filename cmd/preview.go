package cmd

import (
	"github.com/KaramelBytes/womenmatters/internal/render"
	"github.com/KaramelBytes/womenmatters/internal/utils"
	"github.com/spf13/cobra"
)

var (
	previewRows   int
	previewFormat string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the first rows of the raw and cleaned dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := render.ParseFormat(previewFormat)
		if err != nil {
			return err
		}
		n := cfg.PreviewRows
		if cmd.Flags().Changed("rows") {
			n = previewRows
		}

		src := openSource()
		raw, err := src.Raw()
		if err != nil {
			return err
		}
		cleaned, _, err := src.Cleaned()
		if err != nil {
			return err
		}
		p := render.NewPreview(raw, cleaned, n)

		out := cmd.OutOrStdout()
		switch f {
		case render.FormatMarkdown:
			_, err = out.Write([]byte(render.PreviewMarkdown(p)))
			return err
		case render.FormatJSON:
			b, err := utils.PrettyJSON(p)
			if err != nil {
				return err
			}
			_, err = out.Write(append(b, '\n'))
			return err
		default:
			return render.PreviewTerminal(out, p)
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", 5, "number of rows to show (default from config)")
	previewCmd.Flags().StringVar(&previewFormat, "format", "terminal", "output format: terminal|markdown|json")
}
