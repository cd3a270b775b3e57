package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ClimbCoach/internal/usecase"
)

func newPostsCmd() *cobra.Command {
	var (
		page     int
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Fetch the current blog feed and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			blog := application.Blog()
			var listing usecase.Listing
			if category != "" {
				listing = blog.CategoryListing(cmd.Context(), category, page)
			} else {
				listing = blog.Listing(cmd.Context(), page)
			}
			if listing.Failed {
				return fmt.Errorf("unable to load posts from the content provider")
			}
			return printListing(cmd.OutOrStdout(), listing, asJSON)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&category, "category", "", "filter by category slug")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print cards as JSON")
	return cmd
}

func printListing(w io.Writer, listing usecase.Listing, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing.Cards)
	}

	fmt.Fprintf(w, "Fetched %d posts (page %d of %d):\n", len(listing.Cards), listing.Page, listing.TotalPages)
	for i, card := range listing.Cards {
		names := make([]string, 0, len(card.Categories))
		for _, c := range card.Categories {
			names = append(names, c.Name)
		}
		fmt.Fprintf(w, "%d. %s (%s)", i+1, card.Title, card.Slug)
		if card.Date != "" {
			fmt.Fprintf(w, " %s", card.Date)
		}
		if len(names) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(names, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}
