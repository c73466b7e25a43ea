// Package master generates the ERP master-data tables: organizational
// units, customers with partner functions, and materials with descriptions.
// Master data is the root of the schema dependency graph; every
// transactional table references it.
package master

import (
	"fmt"
	"time"

	"github.com/salesynth/salesynth/internal/fake"
	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/sample"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// Config controls master-data generation. AsOf anchors all relative dates so
// runs are reproducible; it must be set by the caller.
type Config struct {
	Customers int
	Materials int
	AsOf      time.Time
	Seed      int64
}

func (c Config) validate() error {
	if c.Customers <= 0 {
		return generate.ConfigErrorf("customer count must be positive, got %d", c.Customers)
	}
	if c.Materials <= 0 {
		return generate.ConfigErrorf("material count must be positive, got %d", c.Materials)
	}
	if c.AsOf.IsZero() {
		return generate.ConfigErrorf("as-of date must be set")
	}
	return nil
}

// Set holds the generated master-data tables.
type Set struct {
	CompanyCodes         *table.Table
	SalesOrgs            *table.Table
	DistributionChannels *table.Table
	Divisions            *table.Table
	Customers            *table.Table
	PartnerFunctions     *table.Table
	Materials            *table.Table
	MaterialDescriptions *table.Table
}

// Tables returns the generated tables in dependency order.
func (s *Set) Tables() []*table.Table {
	return []*table.Table{
		s.CompanyCodes, s.SalesOrgs, s.DistributionChannels, s.Divisions,
		s.Customers, s.PartnerFunctions, s.Materials, s.MaterialDescriptions,
	}
}

// Partner roles written for every customer: sold-to, ship-to, bill-to and
// payer, all pointing back at the customer itself.
var partnerRoles = []string{"sold_to", "ship_to", "bill_to", "payer"}

var (
	countries       = []string{"US", "DE", "GB", "FR"}
	countryWeights  = []float64{0.6, 0.2, 0.15, 0.05}
	accountGroups   = []string{"0001", "0002", "0003"}
	groupWeights    = []float64{0.7, 0.2, 0.1}
	industries      = []string{"Manufacturing", "Technology", "Retail", "Energy"}
	industryWeights = []float64{0.3, 0.25, 0.25, 0.2}

	materialTypes  = []string{"FERT", "HAWA", "ROH"}
	typeWeights    = []float64{0.7, 0.2, 0.1}
	materialGroups = []string{"ELEC", "MACH", "TOOL", "PART", "CONS"}
	baseUnits      = []string{"EA", "KG", "L"}
	unitWeights    = []float64{0.7, 0.2, 0.1}
)

// Organizational code pools and their draw weights. The document chain
// generator draws from the same pools so that transactional documents skew
// toward the same organizational units as the master data.
var (
	SalesOrgCodes   = []string{"1000", "2000", "3000"}
	SalesOrgWeights = []float64{0.6, 0.3, 0.1}
	ChannelCodes    = []string{"10", "20", "30"}
	ChannelWeights  = []float64{0.5, 0.3, 0.2}
	DivisionCodes   = []string{"00", "01", "02"}
	DivisionWeights = []float64{0.5, 0.3, 0.2}
)

// CustomerID formats the identifier of the i-th generated customer.
func CustomerID(i int) string { return fmt.Sprintf("CU%08d", 100001+i) }

// MaterialID formats the identifier of the i-th generated material.
func MaterialID(i int) string { return fmt.Sprintf("MA%08d", 1+i) }

// Generate produces all master-data tables. The sampler consumes draws in
// table order (customers, partner functions, materials); changing that order
// is a breaking change to determinism.
func Generate(cfg Config) (*Set, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sampler := sample.New(cfg.Seed)
	faker := fake.NewProvider(cfg.Seed + 1)

	set := &Set{}
	var err error
	if set.CompanyCodes, set.SalesOrgs, set.DistributionChannels, set.Divisions, err = organizational(); err != nil {
		return nil, err
	}
	if set.Customers, err = customers(cfg, sampler, faker); err != nil {
		return nil, err
	}
	if set.PartnerFunctions, err = partnerFunctions(cfg, sampler); err != nil {
		return nil, err
	}
	if set.Materials, err = materials(cfg, sampler); err != nil {
		return nil, err
	}
	if set.MaterialDescriptions, err = materialDescriptions(set.Materials, faker); err != nil {
		return nil, err
	}
	return set, nil
}

func mustDef(name string) schema.TableDef {
	def, ok := schema.Lookup(name)
	if !ok {
		panic("unknown table definition: " + name)
	}
	return def
}

func organizational() (companies, orgs, channels, divisions *table.Table, err error) {
	companies = mustDef(schema.TableCompanyCodes).NewTable()
	for _, row := range [][]any{
		{"1000", "US Industries Inc.", "USD", "US"},
		{"2000", "Germany GmbH", "EUR", "DE"},
		{"3000", "UK Limited", "GBP", "GB"},
	} {
		if err = companies.Append(row...); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	orgs = mustDef(schema.TableSalesOrgs).NewTable()
	for _, row := range [][]any{
		{"1000", "US Sales Org", "1000", "USD"},
		{"2000", "Germany Sales Org", "2000", "EUR"},
		{"3000", "UK Sales Org", "3000", "GBP"},
	} {
		if err = orgs.Append(row...); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	channels = mustDef(schema.TableDistributionChannels).NewTable()
	for _, row := range [][]any{
		{"10", "Direct Sales"}, {"20", "Wholesale"}, {"30", "E-Commerce"},
	} {
		if err = channels.Append(row...); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	divisions = mustDef(schema.TableDivisions).NewTable()
	for _, row := range [][]any{
		{"00", "Cross-Division"}, {"01", "Electronics"}, {"02", "Machinery"},
	} {
		if err = divisions.Append(row...); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return companies, orgs, channels, divisions, nil
}

func customers(cfg Config, sampler *sample.Sampler, faker *fake.Provider) (*table.Table, error) {
	n := cfg.Customers
	t := mustDef(schema.TableCustomers).NewTable()

	countryDraws := sampler.WeightedChoices(n, countries, countryWeights)
	groupDraws := sampler.WeightedChoices(n, accountGroups, groupWeights)
	industryDraws := sampler.WeightedChoices(n, industries, industryWeights)
	ageDraws := sampler.IntsBetween(n, 1, 2000)

	for i := 0; i < n; i++ {
		created := cfg.AsOf.AddDate(0, 0, -ageDraws[i])
		err := t.Append(
			CustomerID(i),
			faker.Company(),
			countryDraws[i],
			faker.PostalCode(),
			faker.City(),
			faker.Street(),
			groupDraws[i],
			industryDraws[i],
			created,
		)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func partnerFunctions(cfg Config, sampler *sample.Sampler) (*table.Table, error) {
	n := cfg.Customers
	t := mustDef(schema.TablePartnerFunctions).NewTable()

	orgDraws := sampler.WeightedChoices(n, SalesOrgCodes, SalesOrgWeights)
	channelDraws := sampler.WeightedChoices(n, ChannelCodes, ChannelWeights)
	divisionDraws := sampler.WeightedChoices(n, DivisionCodes, DivisionWeights)

	for i := 0; i < n; i++ {
		id := CustomerID(i)
		for _, role := range partnerRoles {
			err := t.Append(id, orgDraws[i], channelDraws[i], divisionDraws[i], role, id)
			if err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func materials(cfg Config, sampler *sample.Sampler) (*table.Table, error) {
	n := cfg.Materials
	t := mustDef(schema.TableMaterials).NewTable()

	typeDraws := sampler.WeightedChoices(n, materialTypes, typeWeights)
	groupDraws := sampler.Choices(n, materialGroups)
	unitDraws := sampler.WeightedChoices(n, baseUnits, unitWeights)
	lineDraws := sampler.IntsBetween(n, 1, 20)
	ageDraws := sampler.IntsBetween(n, 100, 1000)

	for i := 0; i < n; i++ {
		created := cfg.AsOf.AddDate(0, 0, -ageDraws[i])
		err := t.Append(
			MaterialID(i),
			typeDraws[i],
			groupDraws[i],
			unitDraws[i],
			fmt.Sprintf("PL%02d", lineDraws[i]),
			created,
		)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func materialDescriptions(materials *table.Table, faker *fake.Provider) (*table.Table, error) {
	t := mustDef(schema.TableMaterialDescriptions).NewTable()
	for i := 0; i < materials.Len(); i++ {
		id, _ := materials.Value(i, "material_id")
		if err := t.Append(id, "EN", faker.ProductName()); err != nil {
			return nil, err
		}
	}
	return t, nil
}
