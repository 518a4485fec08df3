package cli

import (
	"errors"
	"fmt"

	"bibliomatch/internal/enrich"
	"bibliomatch/internal/recommend"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var describe bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Find a book and similar reads by free-text title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			res, err := a.recommendService().Resolve(cmd.Context(), args[0])
			switch {
			case errors.Is(err, recommend.ErrEmptyQuery):
				return nil
			case errors.Is(err, recommend.ErrNotFound):
				fmt.Fprintln(out, msgNotFound)
				return nil
			case recommend.IsTransport(err):
				return errors.New(msgUnreachable)
			case err != nil:
				return err
			}

			enr, err := a.enrichService()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Result Found")
			printBook(out, res.Found, enr.CoverURL(res.Found, enrich.CoverLarge))
			if describe {
				fmt.Fprintf(out, "\n%s\n", enr.Describe(cmd.Context(), res.Found))
			}

			if len(res.Related) > 0 {
				fmt.Fprintln(out, "\nSimilar Tomes")
				for _, b := range res.Related {
					printBook(out, b, enr.CoverURL(b, enrich.CoverMedium))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&describe, "describe", false, "also fetch the matched book's description")
	return cmd
}
