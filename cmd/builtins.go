package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/liteshell/core"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the shell builtins
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands the shell runs itself, in the order they're matched.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, builtin := range core.AllBuiltins {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", builtin.Name, builtin.Match, builtin.Short)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
