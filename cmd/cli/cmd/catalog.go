// Package cmd - catalog browsing commands
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"repairdesk/adapters/backend"
	"repairdesk/core/catalog"
	"repairdesk/core/types"
	"repairdesk/core/ui"
	"repairdesk/internal/config"
)

var (
	listFormat   string
	deviceType   string
	clientSearch string
	clientRole   string
	listPage     int
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List the issues of a device type",
	RunE:  runIssues,
}

var tiersCmd = &cobra.Command{
	Use:   "tiers <issue-id>",
	Short: "List the quality tiers of a part-based issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runTiers,
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Search clients by name or phone",
	RunE:  runClients,
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Browse products and supplier orders",
}

var stockProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List stock products",
	RunE:  runProducts,
}

var stockOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List supplier orders",
	RunE:  runOrders,
}

func init() {
	rootCmd.AddCommand(issuesCmd, tiersCmd, clientsCmd, stockCmd)
	stockCmd.AddCommand(stockProductsCmd, stockOrdersCmd)

	issuesCmd.Flags().StringVarP(&deviceType, "device-type", "d", "", "device type slug [REQUIRED]")
	_ = issuesCmd.MarkFlagRequired("device-type")

	clientsCmd.Flags().StringVarP(&clientSearch, "search", "s", "", "name or phone substring")
	clientsCmd.Flags().StringVar(&clientRole, "role", "Client", "role name filter")

	for _, c := range []*cobra.Command{issuesCmd, tiersCmd, clientsCmd, stockProductsCmd, stockOrdersCmd} {
		c.Flags().StringVar(&listFormat, "format", "cli", "output format (cli, json)")
	}
	for _, c := range []*cobra.Command{clientsCmd, stockProductsCmd, stockOrdersCmd} {
		c.Flags().IntVar(&listPage, "page", 1, "page number")
	}
}

func runIssues(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	cat := catalog.NewIssueCatalog(client)
	if err := cat.Load(cmd.Context(), deviceType); err != nil {
		return err
	}

	issues := cat.Issues()
	if listFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), issues)
	}
	w := newWriter(cmd)
	if len(issues) == 0 {
		w.Warning("No issues for %s", deviceType)
		return nil
	}

	currency := config.Get().Pricing.Currency
	t := w.NewTable("ID", "NAME", "CATEGORY", "BASE PRICE")
	for _, issue := range issues {
		price := "per tier"
		if issue.CategoryType() == types.CategoryService {
			price = types.FormatAmount(issue.BasePrice()) + " " + string(currency)
		}
		t.AddRow(issue.ID, issue.Name, string(issue.CategoryType()), price)
	}
	t.SetFooter("%d issues for %s", t.Len(), deviceType)
	t.Render()
	return nil
}

func runTiers(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	id := types.NormalizeID(args[0])
	tiers, err := client.PricingOptions(cmd.Context(), id)
	if err != nil {
		return err
	}

	if listFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), tiers)
	}
	w := newWriter(cmd)
	if len(tiers) == 0 {
		w.Warning("No pricing option for issue %s", id)
		return nil
	}

	currency := config.Get().Pricing.Currency
	t := w.NewTable("TIER ID", "TIER", "PRICE", "WARRANTY", "AVAILABILITY")
	for _, tier := range tiers {
		t.AddRow(
			fmt.Sprint(tier.ID),
			string(tier.Tier),
			types.FormatAmount(tier.Price)+" "+string(currency),
			fmt.Sprintf("%d days", tier.WarrantyDays),
			string(tier.Availability),
		)
	}
	t.Render()
	return nil
}

func runClients(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	page, err := client.ListClients(cmd.Context(), backend.ClientQuery{Search: clientSearch, Role: clientRole, Page: listPage})
	if err != nil {
		return err
	}

	// the backend search may match other fields; keep name and phone matches only
	var matches []types.Client
	for _, c := range page.Results {
		if c.Matches(clientSearch) {
			matches = append(matches, c)
		}
	}

	if listFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), matches)
	}
	t := newWriter(cmd).NewTable("ID", "NAME", "PHONE", "EMAIL")
	for _, c := range matches {
		t.AddRow(fmt.Sprint(c.ID), c.FullName(), c.Profile.PhoneNumber, c.Email)
	}
	t.SetFooter("%d of %d clients", len(matches), page.Count)
	t.Render()
	return nil
}

func runProducts(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	page, err := client.ListProducts(cmd.Context(), listPage)
	if err != nil {
		return err
	}
	if listFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), page)
	}
	t := newWriter(cmd).NewTable("ID", "NAME", "SKU", "PRICE", "QUANTITY")
	for _, p := range page.Results {
		t.AddRow(fmt.Sprint(p.ID), p.Name, p.SKU, types.FormatAmount(p.Price), fmt.Sprint(p.Quantity))
	}
	renderPage(t, listPage, page.Count)
	return nil
}

func runOrders(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	page, err := client.ListStoreOrders(cmd.Context(), listPage)
	if err != nil {
		return err
	}
	if listFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), page)
	}
	t := newWriter(cmd).NewTable("ID", "REFERENCE", "STATUS", "TOTAL", "CREATED")
	for _, o := range page.Results {
		t.AddRow(fmt.Sprint(o.ID), o.Reference, o.Status, types.FormatAmount(o.Total), o.CreatedAt)
	}
	renderPage(t, listPage, page.Count)
	return nil
}

func renderPage(t *ui.Table, page, count int) {
	t.SetFooter("page %d, %d results", page, count)
	t.Render()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
