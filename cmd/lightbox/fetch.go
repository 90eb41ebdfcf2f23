package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/lightbox-fetcher/internal/domain"
)

var forceFetch bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <link>...",
	Short: "Fetch the lightbox image of each link",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		failed := 0
		for _, res := range a.service.FetchAll(cmd.Context(), args, forceFetch) {
			switch {
			case res.OK():
				fmt.Fprintf(cmd.OutOrStdout(), "saved\t%s\t%s\n", res.Link, res.Path)
			case res.Outcome == domain.OutcomeSkippedRecent:
				fmt.Fprintf(cmd.OutOrStdout(), "skipped\t%s\t%s\n", res.Link, res.FileName)
			case res.Outcome.Extraction():
				fmt.Fprintf(cmd.OutOrStdout(), "none\t%s\t%s\n", res.Link, res.Outcome)
			default:
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "error\t%s\t%s\n", res.Link, res.FailReason)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d links failed after the image reference was found", failed, len(args))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&forceFetch, "force", false, "ignore the recently-fetched cache")
}
