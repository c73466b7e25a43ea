// Package crm generates the CRM side of the dataset: accounts with
// contacts, marketing campaigns and leads, and a sales pipeline of
// opportunities and quotes. CRM records carry no ERP keys; the linkage
// resolver joins the two systems afterwards.
package crm

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesynth/salesynth/internal/fake"
	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/sample"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// Config controls CRM generation.
type Config struct {
	Accounts int
	AsOf     time.Time
	Seed     int64
}

func (c Config) validate() error {
	if c.Accounts <= 0 {
		return generate.ConfigErrorf("account count must be positive, got %d", c.Accounts)
	}
	if c.AsOf.IsZero() {
		return generate.ConfigErrorf("as-of date must be set")
	}
	return nil
}

// Set holds the generated CRM tables.
type Set struct {
	Accounts      *table.Table
	Contacts      *table.Table
	Campaigns     *table.Table
	Leads         *table.Table
	Opportunities *table.Table
	Quotes        *table.Table
}

// Tables returns the generated tables in dependency order.
func (s *Set) Tables() []*table.Table {
	return []*table.Table{
		s.Accounts, s.Contacts, s.Campaigns, s.Leads, s.Opportunities, s.Quotes,
	}
}

// AccountID formats the identifier of the i-th generated account.
func AccountID(i int) string { return fmt.Sprintf("AC%08d", 1+i) }

// OpportunityID formats the identifier of the i-th generated opportunity.
func OpportunityID(i int) string { return fmt.Sprintf("OP%08d", 1+i) }

var (
	accountTypes = []string{
		"Customer - Direct", "Prospect", "Customer - Channel", "Partner", "Other",
	}
	accountTypeWeights = []float64{0.4, 0.15, 0.2, 0.15, 0.1}

	industries = []string{
		"Manufacturing", "Technology", "Retail", "Energy", "Healthcare", "Finance",
	}
	ratings = []string{"Hot", "Warm", "Cold"}

	titles      = []string{"CEO", "CFO", "VP Sales", "Director", "Manager", "Analyst"}
	departments = []string{"Executive", "Finance", "Sales", "Operations", "IT"}
	leadSources = []string{
		"Web", "Phone Inquiry", "Partner Referral", "Trade Show", "Email Campaign",
	}
	leadStatuses      = []string{"Open", "Contacted", "Qualified", "Unqualified"}
	leadStatusWeights = []float64{0.4, 0.3, 0.2, 0.1}

	campaignTypes    = []string{"Email", "Webinar", "Conference", "Advertisement"}
	campaignStatuses = []string{"Completed", "In Progress", "Planned"}

	opportunityCounts  = []int{0, 1, 2, 3}
	opportunityWeights = []float64{0.3, 0.4, 0.2, 0.1}
	opportunityTypes   = []string{"New Business", "Existing Business", "Upgrade"}

	stages = []string{
		"Prospecting", "Qualification", "Proposal", "Negotiation",
		"Closed Won", "Closed Lost",
	}
	stageWeights = []float64{0.1, 0.15, 0.2, 0.15, 0.25, 0.15}

	// Probability is a function of the stage, not an independent draw.
	stageProbability = map[string]int{
		"Prospecting":   10,
		"Qualification": 25,
		"Proposal":      50,
		"Negotiation":   75,
		"Closed Won":    100,
		"Closed Lost":   0,
	}
)

const (
	// StageWon is the only stage whose opportunities are eligible for
	// order linkage and whose quotes are accepted.
	StageWon  = "Closed Won"
	stageLost = "Closed Lost"
)

const ownerCount = 20

func ownerID(i int) string { return fmt.Sprintf("U%03d", 1+i) }

// Generate produces all CRM tables. Stage order of the sampler draws is
// fixed (accounts, contacts, campaigns, leads, opportunities, quotes) to
// keep equal seeds byte-reproducible.
func Generate(cfg Config) (*Set, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sampler := sample.New(cfg.Seed)
	faker := fake.NewProvider(cfg.Seed + 1)

	set := &Set{}
	var err error
	if set.Accounts, err = accounts(cfg, sampler, faker); err != nil {
		return nil, err
	}
	if set.Contacts, err = contacts(cfg, set.Accounts, sampler, faker); err != nil {
		return nil, err
	}
	if set.Campaigns, err = campaigns(cfg, sampler, faker); err != nil {
		return nil, err
	}
	if set.Leads, err = leads(cfg, sampler, faker); err != nil {
		return nil, err
	}
	if set.Opportunities, err = opportunities(cfg, set.Accounts, set.Campaigns, sampler); err != nil {
		return nil, err
	}
	if set.Quotes, err = quotes(cfg, set.Opportunities, sampler); err != nil {
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

func accounts(cfg Config, sampler *sample.Sampler, faker *fake.Provider) (*table.Table, error) {
	n := cfg.Accounts
	t := mustDef(schema.TableAccounts).NewTable()

	typeDraws := sampler.WeightedChoices(n, accountTypes, accountTypeWeights)
	industryDraws := sampler.Choices(n, industries)
	revenueDraws := sampler.LogNormals(n, 15, 1.2)
	employeeDraws := sampler.IntsBetween(n, 10, 10000)
	ratingDraws := sampler.Choices(n, ratings)
	ownerDraws := sampler.Indexes(n, ownerCount)
	ageDraws := sampler.IntsBetween(n, 30, 1500)

	for i := 0; i < n; i++ {
		err := t.Append(
			AccountID(i),
			fmt.Sprintf("A-%06d", 1+i),
			faker.Company(),
			typeDraws[i],
			industryDraws[i],
			decimal.NewFromFloat(revenueDraws[i]).Round(2),
			employeeDraws[i],
			faker.City(),
			faker.State(),
			ratingDraws[i],
			ownerID(ownerDraws[i]),
			cfg.AsOf.AddDate(0, 0, -ageDraws[i]),
		)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func contacts(cfg Config, accounts *table.Table, sampler *sample.Sampler, faker *fake.Provider) (*table.Table, error) {
	t := mustDef(schema.TableContacts).NewTable()
	counts := sampler.PoissonMin(accounts.Len(), 2, 1)

	contact := 0
	for i := 0; i < accounts.Len(); i++ {
		accountID, _ := accounts.Value(i, "id")
		created, _ := accounts.Value(i, "created_date")
		for j := 0; j < counts[i]; j++ {
			first := faker.FirstName()
			last := faker.LastName()
			err := t.Append(
				fmt.Sprintf("CT%08d", 1+contact),
				accountID,
				first,
				last,
				faker.Email(first, last),
				sampler.Choice(titles),
				sampler.Choice(departments),
				sampler.Choice(leadSources),
				created,
			)
			if err != nil {
				return nil, err
			}
			contact++
		}
	}
	return t, nil
}

func campaigns(cfg Config, sampler *sample.Sampler, faker *fake.Provider) (*table.Table, error) {
	t := mustDef(schema.TableCampaigns).NewTable()
	n := cfg.Accounts / 100
	if n < 5 {
		n = 5
	}
	for i := 0; i < n; i++ {
		start := cfg.AsOf.AddDate(0, 0, -sampler.IntBetween(30, 720))
		budget := decimal.NewFromFloat(sampler.Uniform(5000, 100000)).Round(2)
		actual := budget.Mul(decimal.NewFromFloat(sampler.Uniform(0.5, 1.2))).Round(2)
		err := t.Append(
			fmt.Sprintf("CP%08d", 1+i),
			faker.Company()+" "+sampler.Choice(campaignTypes),
			sampler.Choice(campaignTypes),
			sampler.Choice(campaignStatuses),
			start,
			start.AddDate(0, 0, sampler.IntBetween(14, 90)),
			budget,
			actual,
		)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func leads(cfg Config, sampler *sample.Sampler, faker *fake.Provider) (*table.Table, error) {
	t := mustDef(schema.TableLeads).NewTable()
	n := cfg.Accounts

	statusDraws := sampler.WeightedChoices(n, leadStatuses, leadStatusWeights)
	for i := 0; i < n; i++ {
		first := faker.FirstName()
		last := faker.LastName()
		err := t.Append(
			fmt.Sprintf("LD%08d", 1+i),
			first,
			last,
			faker.Company(),
			sampler.Choice(titles),
			faker.Email(first, last),
			sampler.Choice(industries),
			sampler.Choice(leadSources),
			statusDraws[i],
			sampler.Choice(ratings),
			cfg.AsOf.AddDate(0, 0, -sampler.IntBetween(1, 365)),
		)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func opportunities(cfg Config, accounts, campaigns *table.Table, sampler *sample.Sampler) (*table.Table, error) {
	t := mustDef(schema.TableOpportunities).NewTable()
	counts := make([]int, accounts.Len())
	for i := range counts {
		counts[i] = opportunityCounts[sampler.WeightedIndex(opportunityWeights)]
	}

	opp := 0
	for i := 0; i < accounts.Len(); i++ {
		accountID, _ := accounts.Value(i, "id")
		accountName, _ := accounts.Value(i, "name")
		owner, _ := accounts.Value(i, "owner_id")
		for j := 0; j < counts[i]; j++ {
			stage := sampler.WeightedChoice(stages, stageWeights)
			closed := stage == StageWon || stage == stageLost

			var closeDate time.Time
			if closed {
				closeDate = cfg.AsOf.AddDate(0, 0, -sampler.IntBetween(1, 90))
			} else {
				closeDate = cfg.AsOf.AddDate(0, 0, sampler.IntBetween(1, 90))
			}
			created := closeDate.AddDate(0, 0, -sampler.IntBetween(30, 180))

			var campaign any
			if campaigns.Len() > 0 && sampler.Uniform(0, 1) < 0.4 {
				campaign, _ = campaigns.Value(sampler.Intn(campaigns.Len()), "id")
			}

			err := t.Append(
				OpportunityID(opp),
				accountID,
				fmt.Sprintf("%s - %s", accountName, sampler.Choice(opportunityTypes)),
				stage,
				stageProbability[stage],
				decimal.NewFromFloat(sampler.LogNormal(11, 1.5)).Round(2),
				closeDate,
				sampler.Choice(opportunityTypes),
				sampler.Choice(leadSources),
				closed,
				stage == StageWon,
				campaign,
				owner,
				created,
			)
			if err != nil {
				return nil, err
			}
			opp++
		}
	}
	return t, nil
}

// quoteStage reports whether an opportunity has advanced far enough to
// carry a quote.
func quoteStage(stage string) bool {
	switch stage {
	case "Proposal", "Negotiation", StageWon, stageLost:
		return true
	}
	return false
}

func quotes(cfg Config, opportunities *table.Table, sampler *sample.Sampler) (*table.Table, error) {
	t := mustDef(schema.TableQuotes).NewTable()
	taxRate := decimal.NewFromFloat(0.08)

	quote := 0
	for i := 0; i < opportunities.Len(); i++ {
		stage, _ := opportunities.Value(i, "stage")
		if !quoteStage(stage.(string)) {
			continue
		}
		oppID, _ := opportunities.Value(i, "id")
		accountID, _ := opportunities.Value(i, "account_id")
		amount, _ := opportunities.Value(i, "amount")
		created, _ := opportunities.Value(i, "created_date")

		var status string
		switch stage.(string) {
		case StageWon:
			status = "Accepted"
		case stageLost:
			status = "Denied"
		default:
			status = sampler.Choice([]string{"Draft", "Presented"})
		}

		subtotal := amount.(decimal.Decimal).Mul(decimal.NewFromFloat(sampler.Uniform(0.9, 1.1))).Round(2)
		discount := subtotal.Mul(decimal.NewFromFloat(sampler.Uniform(0, 0.1))).Round(2)
		tax := subtotal.Sub(discount).Mul(taxRate).Round(2)

		err := t.Append(
			fmt.Sprintf("QT%08d", 1+quote),
			fmt.Sprintf("Q-%06d", 1+quote),
			oppID,
			accountID,
			status,
			created.(time.Time).AddDate(0, 0, 30),
			subtotal,
			discount,
			tax,
			subtotal.Sub(discount).Add(tax),
			created,
		)
		if err != nil {
			return nil, err
		}
		quote++
	}
	return t, nil
}
