package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/cmd/tui/ui"
	"github.com/VoxDroid/taxis/internal/listing"
	"github.com/VoxDroid/taxis/internal/logging"
	"github.com/VoxDroid/taxis/internal/messages"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse taxis interactively with a live search",
	RunE: func(cmd *cobra.Command, _ []string) error {
		search, _ := cmd.Flags().GetString("search")
		// stderr is drawn over by the alt screen
		logger = logging.Discard()
		res, err := newResource()
		if err != nil {
			return err
		}
		c := listing.New(res, messages.NewBag(), listing.WithLogger(logger))
		defer c.Close()
		c.SetSearch(search)

		_, err = ui.NewProgram(c).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringP("search", "s", "", "Initial search")
	rootCmd.AddCommand(tuiCmd)
}

// The Bubble Tea UI lives in `cmd/tui/ui` to keep UI implementation and
// tests together.
