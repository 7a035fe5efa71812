package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/listing"
	"github.com/VoxDroid/taxis/internal/messages"
	"github.com/VoxDroid/taxis/internal/tui/sanitize"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4"))

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List taxis grouped by the first letter of their registration",
	Long:  "List taxis grouped by the first letter of their registration. Example:\n  taxis list --search abc",
	RunE: func(cmd *cobra.Command, _ []string) error {
		search, _ := cmd.Flags().GetString("search")
		fuzzyFlag, _ := cmd.Flags().GetBool("fuzzy")
		jsonFlag, _ := cmd.Flags().GetBool("json")

		res, err := newResource()
		if err != nil {
			return err
		}
		opts := []listing.Option{listing.WithLogger(logger)}
		if fuzzyFlag {
			opts = append(opts, listing.WithFuzzy())
		}
		bag := messages.NewBag()
		c := listing.New(res, bag, opts...)
		defer c.Close()

		c.SetSearch(search)
		c.Load(cmd.Context())
		if bag.Len() > 0 {
			return reportMessages(cmd, bag)
		}

		headings := c.TaxisList()
		if jsonFlag {
			return writeJSON(cmd, headings)
		}

		out := cmd.OutOrStdout()
		for _, key := range headings.Keys() {
			fmt.Fprintln(out, headingStyle.Render(sanitize.Text(key)))
			for _, t := range headings[key] {
				fmt.Fprintf(out, "  - %s (seat %s) #%s\n", sanitize.Text(t.Registration), sanitize.Text(t.Seat), t.ID)
			}
		}
		n := headings.Count()
		noun := "taxis"
		if n == 1 {
			noun = "taxi"
		}
		fmt.Fprintf(out, "%s %s\n", humanize.Comma(int64(n)), noun)
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "Only show taxis with a field containing this text")
	listCmd.Flags().Bool("fuzzy", false, "Enable fuzzy matching for the search")
	listCmd.Flags().Bool("json", false, "Print the grouped list as JSON")
	rootCmd.AddCommand(listCmd)
}
