package extractcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookmeta/src/cmd/bookmeta/app"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/store"
)

// New returns the extract command: fetch (or read) a page and print its record.
func New() *cobra.Command {
	var htmlFile, format, saveDir string
	var noEnrich bool
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract a book record from a Goodreads, Amazon, Audible or Google Books page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Load(cmd)
			if err != nil {
				return err
			}
			r, err := env.Extract(cmd.Context(), args[0], htmlFile, !noEnrich)
			if err != nil {
				return err
			}
			if saveDir != "" {
				path, err := store.Write(saveDir, r)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path); err != nil {
					return err
				}
			}
			return Print(cmd.OutOrStdout(), r, format)
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "", "read the page from a saved HTML file instead of fetching it")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().StringVar(&saveDir, "save", "", "also archive the record under this directory")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip the Google Books API lookup")
	return cmd
}

// Print writes r to w as YAML or indented JSON.
func Print(w io.Writer, r record.Record, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
