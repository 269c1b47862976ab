package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"TempleChat/internal/content"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List the documents and PDFs currently published in the live feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.requireClient(); err != nil {
			return err
		}

		embeds := content.NewLoader(rt.client, rt.logger).Load(cmd.Context())
		if len(embeds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing published in the feed right now.")
			return nil
		}
		for _, e := range embeds {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n%-16s %s\n", e.Slot, e.Title, "", e.URL)
		}
		return nil
	},
}

var (
	contactName  string
	contactEmail string
)

var contactCmd = &cobra.Command{
	Use:   "contact <message>",
	Short: "Send a message through the temple contact form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.requireClient(); err != nil {
			return err
		}

		res := content.NewForms(rt.client, rt.logger).SubmitContact(cmd.Context(), content.ContactFields{
			Name:    contactName,
			Email:   contactEmail,
			Message: strings.Join(args, " "),
		})
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

var nearestCmd = &cobra.Command{
	Use:   "nearest <zip>",
	Short: "Find members near a ZIP code (or its first three digits)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.requireClient(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), content.NewForms(rt.client, rt.logger).Nearest(cmd.Context(), args[0]))
		return nil
	},
}

func init() {
	contactCmd.Flags().StringVar(&contactName, "name", "", "your name")
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "your email")

	rootCmd.AddCommand(feedCmd, contactCmd, nearestCmd)
}
