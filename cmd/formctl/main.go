// Command formctl drives the form pipeline from a terminal: describe a
// form, validate a YAML field file, or submit it to the forms backend.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	baseURL    string
	resumePath string
	fieldsPath string
)

var rootCmd = &cobra.Command{
	Use:           "formctl",
	Short:         "Validate and submit agency website forms",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", strings.TrimRight(os.Getenv("FORMS_API_BASE_URL"), "/"), "forms backend base URL")

	for _, cmd := range []*cobra.Command{validateCmd, submitCmd} {
		cmd.Flags().StringVarP(&fieldsPath, "fields", "f", "", "YAML file with the form fields")
		cmd.Flags().StringVar(&resumePath, "resume", "", "resume to attach (PDF, DOC or DOCX)")
		_ = cmd.MarkFlagRequired("fields")
	}

	rootCmd.AddCommand(schemaCmd, validateCmd, submitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
