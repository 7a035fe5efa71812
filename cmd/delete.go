package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/utils"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a taxi",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		confirmFlag, _ := cmd.Flags().GetBool("confirm")

		if confirmFlag {
			if !utils.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete taxi %s permanently?", id)) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
		}
		res, err := newResource()
		if err != nil {
			return err
		}
		if err := res.Remove(cmd.Context(), id); err != nil {
			return reportFailure(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted taxi %s\n", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("confirm", false, "Ask for confirmation")
	rootCmd.AddCommand(deleteCmd)
}
