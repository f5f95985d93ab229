package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vortrixs/user-api/internal/lib/email"
)

func newEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Email template tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "preview <template>",
		Short:     "Render an email template with sample data to stdout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(email.TemplateWelcome)},
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := email.Preview(email.Template(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	})

	return cmd
}
