package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/taxi"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a taxi",
	Long:  "Create a taxi. Example:\n  taxis create --registration ABC1234 --seat 4 --field colour=black",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, _ := cmd.Flags().GetString("registration")
		seat, _ := cmd.Flags().GetString("seat")
		fields, _ := cmd.Flags().GetStringArray("field")

		t := taxi.Taxi{Registration: cleanRegistration(cmd, reg), Seat: seat}
		if err := applyFields(&t, fields); err != nil {
			return err
		}

		res, err := newResource()
		if err != nil {
			return err
		}
		created, err := res.Save(cmd.Context(), t)
		if err != nil {
			return reportFailure(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created taxi %s (%s)\n", created.ID, created.Registration)
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("registration", "r", "", "Registration, 7 letters or digits")
	createCmd.Flags().String("seat", "", "Number of seats, 2 to 20")
	createCmd.Flags().StringArrayP("field", "f", nil, "Extra field as key=value (repeatable)")
	rootCmd.AddCommand(createCmd)
}
