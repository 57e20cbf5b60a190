package main

import (
	"fmt"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [form]",
	Short: "Describe a form's fields",
	Long:  "Lists each field with its kind, whether it is required and the messages its rules produce. Without an argument every form type is listed.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, t := range domain.FormTypes() {
			fmt.Fprintf(out, "%-8s %s\n", t, t.DefaultRoute())
		}
		return nil
	}

	formType, err := domain.ParseFormType(args[0])
	if err != nil {
		return err
	}

	fields, err := forms.NewValidator(validator.New()).Describe(formType)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s -> %s\n\n", formType, formType.DefaultRoute())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tREQUIRED\tRULES")
	for _, f := range fields {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.Name, f.Kind, f.Required, strings.Join(f.Rules, "; "))
	}
	return tw.Flush()
}
