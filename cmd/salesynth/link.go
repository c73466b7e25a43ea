package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salesynth/salesynth/internal/codec"
	"github.com/salesynth/salesynth/internal/linkage"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Resolve cross-system links between the CRM and ERP tables",
	Long: `Reads the generated dataset back from the output directory, runs the
four match passes (accounts, opportunities, quotes, contacts) and writes the
resulting link tables. Unlinkable records are reported, not errors.`,
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func readTable(layout codec.Layout, name string) (*table.Table, error) {
	def, ok := schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown table %s", name)
	}
	t, err := layout.ReadCSV(def)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return t, nil
}

func runLink(cmd *cobra.Command, args []string) error {
	layout := codec.Layout{Root: cfg.Output}

	inputs := linkage.Inputs{}
	for _, load := range []struct {
		name   string
		target **table.Table
	}{
		{schema.TableAccounts, &inputs.Accounts},
		{schema.TableOpportunities, &inputs.Opportunities},
		{schema.TableQuotes, &inputs.Quotes},
		{schema.TableContacts, &inputs.Contacts},
		{schema.TableCustomers, &inputs.Customers},
		{schema.TableOrders, &inputs.Orders},
		{schema.TablePartnerFunctions, &inputs.PartnerFunctions},
	} {
		t, err := readTable(layout, load.name)
		if err != nil {
			return err
		}
		*load.target = t
	}

	result, err := linkage.Resolve(inputs)
	if err != nil {
		return fmt.Errorf("resolve links: %w", err)
	}

	for _, stats := range result.Stats {
		logger.WithFields(logrus.Fields{
			"pass":           stats.Pass,
			"sources":        stats.Sources,
			"linked":         stats.Linked,
			"missing_master": stats.MissingMaster,
			"no_candidate":   stats.NoCandidate,
		}).Info("match pass complete")
	}
	logger.WithField("consumed_orders", result.Consumed.Len()).Debug("exclusion state")

	for _, t := range result.Tables() {
		if _, err := layout.WriteCSV(t); err != nil {
			return fmt.Errorf("write %s: %w", t.Identity(), err)
		}
	}
	return nil
}
