package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang-netdef/internal/adapter/infrastructure/network"
	"golang-netdef/internal/adapter/matcher"

	"github.com/spf13/cobra"
)

var matchOpts loadOptions

var matchCmd = &cobra.Command{
	Use:   "match [files...]",
	Short: "Show which system links each physical definition applies to",
	RunE: func(cmd *cobra.Command, args []string) error {
		matchOpts.files = args
		parser, err := matchOpts.parse(cmd.Context())
		if err != nil {
			return err
		}

		results, err := matcher.NewMatcher(network.NewManagerAdapter()).Match(parser.Registry().Definitions())
		if err != nil {
			return err
		}
		return printMatches(cmd.OutOrStdout(), results)
	},
}

func printMatches(out io.Writer, results []matcher.Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range results {
		names := make([]string, 0, len(r.Links))
		for _, link := range r.Links {
			names = append(names, link.Name)
		}
		selected := strings.Join(names, ",")
		if selected == "" {
			selected = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Definition.ID, selected); err != nil {
			return err
		}
	}
	return w.Flush()
}

func init() {
	matchOpts.register(matchCmd)
	rootCmd.AddCommand(matchCmd)
}
