package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/taxi"
	"github.com/VoxDroid/taxis/internal/utils"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a taxi as JSON in $EDITOR",
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

		tmpf, err := os.CreateTemp("", "taxis-edit-*.json")
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(tmpf.Name()) }()
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return err
		}
		if _, err := tmpf.Write(append(b, '\n')); err != nil {
			_ = tmpf.Close()
			return err
		}
		if err := tmpf.Close(); err != nil {
			return err
		}

		if err := utils.OpenEditor(tmpf.Name()); err != nil {
			return err
		}

		b, err = os.ReadFile(tmpf.Name())
		if err != nil {
			return err
		}
		var edited taxi.Taxi
		if err := json.Unmarshal(b, &edited); err != nil {
			return fmt.Errorf("edited taxi is not valid JSON: %w", err)
		}
		// the id in the path wins
		edited.ID = id
		edited.Registration = cleanRegistration(cmd, edited.Registration)

		updated, err := res.Update(cmd.Context(), edited)
		if err != nil {
			return reportFailure(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated taxi %s (%s)\n", updated.ID, updated.Registration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
