package main

import (
	"context"
	"errors"
	"fmt"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"go-agency-backend/internal/submission"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errSubmitFailed = errors.New("submission failed")

var submitCmd = &cobra.Command{
	Use:   "submit <form>",
	Short: "Validate and send a field file to the forms backend",
	Long:  "Runs one submission through the form state controller and prints every state transition.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	formType, err := domain.ParseFormType(args[0])
	if err != nil {
		return err
	}
	if baseURL == "" {
		return errors.New("no backend: set --base-url or FORMS_API_BASE_URL")
	}
	fields, err := loadFields(fieldsPath)
	if err != nil {
		return err
	}
	resume, err := loadResume(resumePath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	last := domain.StatusIdle
	fmt.Fprintln(out, last)

	v := forms.NewValidator(validator.New())
	ctrl := submission.NewController(v, submission.NewClient(baseURL, &http.Client{}), submission.Options{
		InstanceID: uuid.NewString(),
		FormType:   formType,
		OnChange: func(s domain.FormSnapshot) {
			// Validation failures leave the status unchanged
			if s.Status == last {
				return
			}
			last = s.Status
			line := string(s.Status)
			if s.Message != "" {
				line += " " + quote(s.Message)
			}
			fmt.Fprintln(out, line)
		},
	})
	defer ctrl.Close()

	var attachment any
	if resume != nil {
		attachment = resume
	}
	res, err := ctrl.Submit(ctx, fields, attachment)

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		order, oErr := fieldOrder(v, formType)
		if oErr != nil {
			return oErr
		}
		fmt.Fprintln(out, "not sent, invalid fields:")
		formatErrors(out, order, vErr.Fields)
		return errInvalid
	}
	if err != nil {
		return err
	}

	if !res.Success {
		return errSubmitFailed
	}
	return nil
}
