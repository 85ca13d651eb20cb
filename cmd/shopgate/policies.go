package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sovannvath/storefront-gateway/internal/app"
	"github.com/sovannvath/storefront-gateway/internal/services"
)

// policiesCmd manages route policies without starting the server
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Manage route policies",
	Long: `Manage the role allow-lists stored in the policy database.

Available subcommands:
  seed - Write the default route policies into an empty store
  list - Print every stored rule`,
}

var policiesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default route policies into an empty store",
	RunE:  runPoliciesSeed,
}

var policiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored route policies",
	RunE:  runPoliciesList,
}

func openPolicies() (*app.Container, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	return app.NewPolicyContainer(cfg, logger)
}

func runPoliciesSeed(cmd *cobra.Command, args []string) error {
	c, err := openPolicies()
	if err != nil {
		return err
	}
	defer c.Close()

	added, err := services.SeedDefaults(c.PolicySvc, services.DefaultPolicies)
	if err != nil {
		return err
	}
	if added == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "policy store already populated; nothing seeded")
		return nil
	}
	c.Logger.Info("seeded default policies", zap.Int("rules", added))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rules\n", added)
	return nil
}

func runPoliciesList(cmd *cobra.Command, args []string) error {
	c, err := openPolicies()
	if err != nil {
		return err
	}
	defer c.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tMETHOD\tROUTE")
	for _, rule := range c.PolicySvc.GetPolicies() {
		if len(rule) < 3 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", strings.TrimPrefix(rule[0], services.RolePrefix), rule[2], rule[1])
	}
	return tw.Flush()
}
