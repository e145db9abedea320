// Package cmd - repair follow-up commands
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

var (
	cardPayment   string
	cashPayment   string
	repairComment string
	rescheduleTo  string
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Follow up on existing repairs",
}

var repairShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a repair",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepairShow,
}

var repairStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Update the status and payments of a repair",
	Long: `Update a repair. Status is one of saisie, en-cours, prete, en-attente.

Examples:
  repairdesk repair status 12 prete
  repairdesk repair status 12 prete --card 80 --cash 39.50`,
	Args: cobra.ExactArgs(2),
	RunE: runRepairStatus,
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.AddCommand(repairShowCmd, repairStatusCmd)

	repairStatusCmd.Flags().StringVar(&cardPayment, "card", "", "card payment amount")
	repairStatusCmd.Flags().StringVar(&cashPayment, "cash", "", "cash payment amount")
	repairStatusCmd.Flags().StringVar(&repairComment, "comment", "", "comment")
	repairStatusCmd.Flags().StringVar(&rescheduleTo, "scheduled", "", "new scheduled date (YYYY-MM-DD)")
}

func parseRepairID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, errors.Newf(errors.TypeInput, "invalid repair id %q", arg)
	}
	return id, nil
}

func parseAmountFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return nil, errors.Newf(errors.TypeInput, "invalid --%s amount %q", name, value)
	}
	return &d, nil
}

// buildRepairUpdate converts the command arguments into a partial update
func buildRepairUpdate(status string) (types.RepairUpdate, error) {
	var upd types.RepairUpdate

	st := types.RepairStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return upd, errors.Newf(errors.TypeInput, "unknown status %q (want saisie, en-cours, prete or en-attente)", status)
	}
	upd.Status = &st

	var err error
	if upd.CardPayment, err = parseAmountFlag("card", cardPayment); err != nil {
		return upd, err
	}
	if upd.CashPayment, err = parseAmountFlag("cash", cashPayment); err != nil {
		return upd, err
	}
	if repairComment != "" {
		upd.Comment = &repairComment
	}
	if rescheduleTo != "" {
		d, err := types.ParseDate(rescheduleTo)
		if err != nil {
			return upd, errors.Wrap(errors.TypeInput, "invalid --scheduled date", err)
		}
		upd.ScheduledDate = &d
	}
	return upd, nil
}

func runRepairStatus(cmd *cobra.Command, args []string) error {
	id, err := parseRepairID(args[0])
	if err != nil {
		return err
	}
	upd, err := buildRepairUpdate(args[1])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	repair, err := client.UpdateRepair(cmd.Context(), id, upd)
	if err != nil {
		return err
	}
	printRepair(cmd, repair)
	return nil
}

func runRepairShow(cmd *cobra.Command, args []string) error {
	id, err := parseRepairID(args[0])
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	repair, err := client.GetRepair(cmd.Context(), id)
	if err != nil {
		return err
	}
	printRepair(cmd, repair)
	return nil
}

func printRepair(cmd *cobra.Command, r types.Repair) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Repair %s (id %d)\n", r.UID, r.ID)
	fmt.Fprintf(out, "  status:      %s\n", r.Status)
	fmt.Fprintf(out, "  date:        %s\n", r.Date)
	if r.ScheduledDate != nil {
		fmt.Fprintf(out, "  scheduled:   %s\n", r.ScheduledDate)
	}
	fmt.Fprintf(out, "  price:       %s\n", types.FormatAmount(r.Price))
	fmt.Fprintf(out, "  paid:        %s card, %s cash\n", types.FormatAmount(r.CardPayment), types.FormatAmount(r.CashPayment))
	fmt.Fprintf(out, "  outstanding: %s\n", types.FormatAmount(r.Outstanding()))
}
