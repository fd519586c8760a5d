package listcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookmeta/src/internal/record"
	"bookmeta/src/internal/store"
)

// New returns the list command, which prints the records archived by
// extract --save.
func New() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List archived records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := store.DefaultDir
			if len(args) == 1 {
				dir = args[0]
			}
			recs, err := store.ReadAll(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range recs {
				if source != "" && !strings.EqualFold(string(r.Source), source) {
					continue
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", r.Source, r.Title, identifier(r)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "only list records from this source")
	return cmd
}

// identifier picks the most useful catalog key for display.
func identifier(r record.Record) string {
	id := r.Identifiers
	for _, v := range []string{id.ISBN13, id.ISBN10, id.ASIN, id.Goodreads, id.Google} {
		if v != "" {
			return v
		}
	}
	return "-"
}
