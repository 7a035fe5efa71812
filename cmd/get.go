package cmd

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one taxi",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		jsonFlag, _ := cmd.Flags().GetBool("json")

		res, err := newResource()
		if err != nil {
			return err
		}
		t, err := res.Get(cmd.Context(), id)
		if err != nil {
			return reportFailure(cmd, err)
		}
		if jsonFlag {
			return writeJSON(cmd, t)
		}
		printTaxi(cmd, *t)
		return nil
	},
}

func init() {
	getCmd.Flags().Bool("json", false, "Print the taxi as JSON")
	rootCmd.AddCommand(getCmd)
}
