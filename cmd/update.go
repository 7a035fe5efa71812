package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a taxi",
	Long:  "Change fields of a taxi. Flags that are not given keep their value. Example:\n  taxis update 3 --seat 7 --field colour=",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		res, err := newResource()
		if err != nil {
			return err
		}
		t, err := res.Get(cmd.Context(), id)
		if err != nil {
			return reportFailure(cmd, err)
		}

		if cmd.Flags().Changed("registration") {
			reg, _ := cmd.Flags().GetString("registration")
			t.Registration = cleanRegistration(cmd, reg)
		}
		if cmd.Flags().Changed("seat") {
			t.Seat, _ = cmd.Flags().GetString("seat")
		}
		fields, _ := cmd.Flags().GetStringArray("field")
		if err := applyFields(t, fields); err != nil {
			return err
		}

		updated, err := res.Update(cmd.Context(), *t)
		if err != nil {
			return reportFailure(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated taxi %s (%s)\n", updated.ID, updated.Registration)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringP("registration", "r", "", "New registration")
	updateCmd.Flags().String("seat", "", "New number of seats")
	updateCmd.Flags().StringArrayP("field", "f", nil, "Extra field as key=value, empty value removes it (repeatable)")
	rootCmd.AddCommand(updateCmd)
}
