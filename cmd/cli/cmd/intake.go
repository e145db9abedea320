// Package cmd - quote and submit commands
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"repairdesk/adapters/backend"
	"repairdesk/adapters/intakefile"
	"repairdesk/core/intake"
	"repairdesk/core/output"
	"repairdesk/internal/config"
	"repairdesk/internal/logging"
)

var (
	intakeFile   string
	outputFormat string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an intake file",
	Long: `Load an intake file (.hcl, .yaml or .yml), resolve the quality tiers of its
part-based issues and print the subtotal.

Examples:
  repairdesk quote -f intake.hcl
  repairdesk quote -f intake.yaml --format json`,
	RunE: runQuote,
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Create the repair described by an intake file",
	Long: `Price an intake file and create the repair in the backend.

A new client is registered first when the file has no client id.
Nothing is created when a part-based issue has no tier.`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(quoteCmd, submitCmd)

	for _, c := range []*cobra.Command{quoteCmd, submitCmd} {
		c.Flags().StringVarP(&intakeFile, "file", "f", "", "intake file [REQUIRED]")
		_ = c.MarkFlagRequired("file")
	}
	quoteCmd.Flags().StringVar(&outputFormat, "format", "cli", "output format (cli, json)")
}

// loadIntake parses the intake file and replays it into a new session
func loadIntake(ctx context.Context) (*intakefile.Document, *intake.Session, []string, error) {
	doc, err := intakefile.Load(intakeFile)
	if err != nil {
		return nil, nil, nil, err
	}
	session, err := newSession()
	if err != nil {
		return nil, nil, nil, err
	}
	warnings, err := doc.Apply(ctx, session)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, session, warnings, nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	formatter, err := output.NewRegistry().Get(output.Format(outputFormat))
	if err != nil {
		return err
	}

	_, session, warnings, err := loadIntake(cmd.Context())
	if err != nil {
		return err
	}

	quote := output.NewQuote(session.Catalog().DeviceType(), config.Get().Pricing.Currency, session.Subtotal())
	quote.Warnings = warnings
	return formatter.Render(cmd.OutOrStdout(), quote)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	doc, session, warnings, err := loadIntake(cmd.Context())
	if err != nil {
		return err
	}
	w := newWriter(cmd)
	for _, warning := range warnings {
		w.Warning("%s", warning)
	}

	if err := session.CanSubmit(); err != nil {
		return err
	}

	result, err := session.Submit(cmd.Context(), doc.Details())
	if err != nil {
		if details := backend.ValidationDetails(err); details != nil {
			for field, problem := range details {
				w.Error("%s: %v", field, problem)
			}
		}
		return err
	}
	for _, warning := range result.Warnings {
		w.Warning("%s", warning)
	}

	if result.Client != nil {
		w.Success("Client %s registered (id %d)", result.Client.FullName(), result.Client.ID)
	}
	w.Success("Repair %s created (id %d), %s %s",
		result.Repair.UID, result.Repair.ID, result.Subtotal.Display(), config.Get().Pricing.Currency)
	logging.Info("repair submitted")
	return nil
}
