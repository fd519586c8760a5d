package submitcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookmeta/src/cmd/bookmeta/app"
	"bookmeta/src/internal/jelu"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/store"
	"bookmeta/src/internal/stringsx"
)

// New returns the submit command, which sends a record to the configured
// Jelu server. The record comes from a page (fetched or --html) or from an
// archived --record file.
func New() *cobra.Command {
	var htmlFile, recordFile, tagsCSV, finishedDate string
	var addToLibrary, finished, noEnrich bool
	cmd := &cobra.Command{
		Use:   "submit [url]",
		Short: "Extract a book record and add it to Jelu",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Load(cmd)
			if err != nil {
				return err
			}
			var r record.Record
			switch {
			case recordFile != "":
				if r, err = store.Read(recordFile); err != nil {
					return err
				}
			case len(args) == 1:
				if r, err = env.Extract(cmd.Context(), args[0], htmlFile, !noEnrich); err != nil {
					return err
				}
			default:
				return errors.New("submit: need a url or --record")
			}
			jc := env.Config.Jelu
			client := &jelu.Client{
				HTTP:     env.HTTP,
				BaseURL:  jc.URL,
				Token:    jc.APIToken,
				Username: jc.Username,
				Password: jc.Password,
			}
			sub := jelu.Submission{
				Record:       r,
				Tags:         append(append([]string(nil), env.Config.DefaultTags...), stringsx.SplitList(tagsCSV, ",")...),
				AddToLibrary: addToLibrary || jc.AddToLibrary,
				Finished:     finished || strings.TrimSpace(finishedDate) != "",
				FinishedDate: finishedDate,
			}
			if err := client.Submit(cmd.Context(), sub); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "submitted %q to %s\n", r.Title, jc.URL)
			return err
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "", "read the page from a saved HTML file instead of fetching it")
	cmd.Flags().StringVar(&recordFile, "record", "", "submit an archived record YAML file")
	cmd.Flags().StringVar(&tagsCSV, "tags", "", "comma-delimited tags added to the record's own")
	cmd.Flags().BoolVar(&addToLibrary, "add-to-library", false, "add the book to your library as owned")
	cmd.Flags().BoolVar(&finished, "finished", false, "mark the book finished (with --add-to-library)")
	cmd.Flags().StringVar(&finishedDate, "finished-date", "", "finish date, YYYY-MM-DD (implies --finished)")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip the Google Books API lookup")
	return cmd
}
