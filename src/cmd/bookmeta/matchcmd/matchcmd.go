package matchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookmeta/src/internal/extract"
)

// New returns the match command, which reports the strategy for each address
// without fetching anything.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "match <url>...",
		Short: "Show which source strategy handles each address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				s, ok, err := extract.Match(raw, extract.Options{})
				var line string
				switch {
				case err != nil:
					line = fmt.Sprintf("%s\tinvalid address", raw)
				case !ok:
					line = fmt.Sprintf("%s\tnot supported", raw)
				default:
					line = fmt.Sprintf("%s\t%s", raw, s.Source())
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
