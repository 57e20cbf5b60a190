package main

import (
	"errors"
	"fmt"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("form is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate <form>",
	Short: "Validate a field file without sending it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	formType, err := domain.ParseFormType(args[0])
	if err != nil {
		return err
	}
	fields, err := loadFields(fieldsPath)
	if err != nil {
		return err
	}
	resume, err := loadResume(resumePath)
	if err != nil {
		return err
	}

	v := forms.NewValidator(validator.New())
	var attachment any
	if resume != nil {
		attachment = resume
	}
	result, err := v.Validate(formType, fields, attachment)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "%s form is valid\n", formType)
		return nil
	}

	order, err := fieldOrder(v, formType)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s form has %d invalid field(s):\n", formType, len(result.Errors))
	formatErrors(out, order, result.Errors)
	return errInvalid
}

func fieldOrder(v *forms.Validator, formType domain.FormType) ([]string, error) {
	described, err := v.Describe(formType)
	if err != nil {
		return nil, err
	}
	order := make([]string, 0, len(described))
	for _, f := range described {
		order = append(order, f.Name)
	}
	return order, nil
}
