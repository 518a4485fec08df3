package cli

import (
	"errors"
	"fmt"

	"bibliomatch/internal/enrich"
	"bibliomatch/internal/recommend"
	"bibliomatch/internal/shelf"

	"github.com/spf13/cobra"
)

func newShelfCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Manage your saved bookshelf",
	}
	cmd.AddCommand(newShelfListCmd(a), newShelfAddCmd(a), newShelfRemoveCmd(a))
	return cmd
}

func newShelfListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the books on your shelf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := a.openShelf()
			if err != nil {
				return err
			}
			defer closeDB()

			books, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(books) == 0 {
				fmt.Fprintln(out, "Your shelf is empty. Go find some magic!")
				return nil
			}

			enr, err := a.enrichService()
			if err != nil {
				return err
			}
			for _, b := range books {
				printBook(out, b, enr.CoverURL(b, enrich.CoverMedium))
			}
			return nil
		},
	}
}

func newShelfAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Resolve a title and add the matched book to your shelf",
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

			svc, closeDB, err := a.openShelf()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := svc.Add(cmd.Context(), res.Found); err != nil {
				if errors.Is(err, shelf.ErrAlreadyOnShelf) {
					fmt.Fprintln(out, "You already have this tome!")
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "%q has been added to your shelf!\n", res.Found.Title)
			return nil
		},
	}
}

func newShelfRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <title>",
		Aliases: []string{"remove"},
		Short:   "Remove a book from your shelf by exact title",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := a.openShelf()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := svc.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is no longer on your shelf.\n", args[0])
			return nil
		},
	}
}
