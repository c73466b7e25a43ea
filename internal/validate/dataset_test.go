package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesynth/salesynth/internal/chain"
	"github.com/salesynth/salesynth/internal/crm"
	"github.com/salesynth/salesynth/internal/linkage"
	"github.com/salesynth/salesynth/internal/master"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// End to end: a generated and linked dataset must be referentially closed
// and free of consistency warnings under the declared graph.
func TestGeneratedDatasetPassesValidation(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	masterSet, err := master.Generate(master.Config{
		Customers: 40, Materials: 15, AsOf: asOf, Seed: 11,
	})
	require.NoError(t, err)

	chainSet, err := chain.Generate(masterSet.Customers, masterSet.Materials, masterSet.SalesOrgs, chain.Config{
		Days:              3,
		OrdersPerDay:      10,
		StartDate:         asOf.AddDate(0, 0, -3),
		ItemsPerOrderMean: 3,
		QuantityMu:        3,
		QuantitySigma:     1.2,
		UnitPriceMin:      10,
		UnitPriceMax:      5000,
		BillingPriceMin:   50,
		BillingPriceMax:   1000,
		DeliveryFraction:  0.6,
		BillingFraction:   0.8,
		ShipmentFraction:  0.4,
		Seed:              12,
	})
	require.NoError(t, err)

	crmSet, err := crm.Generate(crm.Config{Accounts: 30, AsOf: asOf, Seed: 13})
	require.NoError(t, err)

	links, err := linkage.Resolve(linkage.Inputs{
		Accounts:         crmSet.Accounts,
		Opportunities:    crmSet.Opportunities,
		Quotes:           crmSet.Quotes,
		Contacts:         crmSet.Contacts,
		Customers:        masterSet.Customers,
		Orders:           chainSet.Orders,
		PartnerFunctions: masterSet.PartnerFunctions,
	})
	require.NoError(t, err)

	tables := make(map[string]*table.Table)
	var all []*table.Table
	all = append(all, masterSet.Tables()...)
	all = append(all, chainSet.Tables()...)
	all = append(all, crmSet.Tables()...)
	all = append(all, links.Tables()...)
	for _, tbl := range all {
		tables[tbl.Identity().Name] = tbl
	}

	report := Validate(tables, schema.DefaultGraph())
	assert.Empty(t, report.MissingTables())
	assert.Zero(t, report.ReferentialViolationCount(), "referential findings: %+v", report.Referential)
	assert.Zero(t, report.NullViolationCount())
	assert.Empty(t, report.Warnings)
	assert.True(t, report.Passed())
}
