package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang-netdef/internal/pkg/netdef"

	"github.com/spf13/cobra"
)

var validateOpts loadOptions

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Merge and validate network definitions",
	Long: `Merge the given files, or every *.yaml file of the configuration
directories, resolve references and validate the result. One line is
printed per interface with its kind and effective backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		validateOpts.files = args
		parser, err := validateOpts.parse(cmd.Context())
		if err != nil {
			return err
		}
		return printRegistry(cmd.OutOrStdout(), parser)
	},
}

func printRegistry(out io.Writer, parser *netdef.Parser) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, def := range parser.Registry().Definitions() {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", def.ID, def.Kind, def.EffectiveBackend); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "renderer: %s\n", parser.EffectiveGlobalBackend())
	return err
}

func init() {
	validateOpts.register(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
