package cli

import (
	"errors"
	"fmt"

	"bibliomatch/internal/enrich"
	"bibliomatch/internal/recommend"

	"github.com/spf13/cobra"
)

func newBlendCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blend <title>...",
		Short: "Blend up to five favorite books into one personalized reading list",
		Args:  cobra.RangeArgs(1, recommend.MaxSeeds),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc := a.recommendService()

			var seeds recommend.SeedSet
			for _, title := range args {
				next, err := svc.AddSeed(cmd.Context(), seeds, title)
				switch {
				case errors.Is(err, recommend.ErrEmptyQuery):
					continue
				case errors.Is(err, recommend.ErrNotFound):
					fmt.Fprintf(out, "Skipping %q: %s\n", title, msgNotFound)
					continue
				case errors.Is(err, recommend.ErrDuplicateSeed):
					fmt.Fprintf(out, "Skipping %q: already in the blend.\n", title)
					continue
				case errors.Is(err, recommend.ErrSeedSetFull):
					fmt.Fprintln(out, "The blend is full; extra titles ignored.")
					continue
				case recommend.IsTransport(err):
					return errors.New(msgUnreachable)
				case err != nil:
					return err
				}
				seeds = next
			}

			if seeds.Len() == 0 {
				fmt.Fprintln(out, "Nothing to blend.")
				return nil
			}

			fmt.Fprintf(out, "Blending: %v\n\n", seeds.Titles())
			books, err := svc.Reveal(cmd.Context(), seeds)
			if err != nil {
				if recommend.IsTransport(err) {
					return errors.New(msgUnreachable)
				}
				return err
			}

			enr, err := a.enrichService()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Your Personalized Reading List")
			for _, b := range books {
				printBook(out, b, enr.CoverURL(b, enrich.CoverMedium))
			}
			return nil
		},
	}
	return cmd
}
