package linkage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

var (
	day       = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	closeDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func newTable(t *testing.T, name string) *table.Table {
	t.Helper()
	def, ok := schema.Lookup(name)
	require.True(t, ok)
	return def.NewTable()
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Two customer-type accounts over two customers, with a prospect between
// them that must not shift the positional pairing. CU1 has a single order
// while two of its opportunities are won, so the second stays unlinked.
func fixture(t *testing.T) Inputs {
	t.Helper()

	customers := newTable(t, schema.TableCustomers)
	require.NoError(t, customers.Append("CU00000001", "Apex Industries", "US", nil, nil, nil, "0001", nil, day))
	require.NoError(t, customers.Append("CU00000002", "Vertex Systems", "DE", nil, nil, nil, "0001", nil, day))

	accounts := newTable(t, schema.TableAccounts)
	require.NoError(t, accounts.Append("AC00000001", "A-000001", "Apex Industries", "Customer - Direct",
		"Manufacturing", money("100000"), 50, nil, nil, "Hot", "U001", day))
	require.NoError(t, accounts.Append("AC00000002", "A-000002", "Summit Group", "Prospect",
		"Retail", money("50000"), 20, nil, nil, "Cold", "U002", day))
	require.NoError(t, accounts.Append("AC00000003", "A-000003", "Vertex Systems", "Customer - Channel",
		"Technology", money("200000"), 80, nil, nil, "Warm", "U001", day))

	orders := newTable(t, schema.TableOrders)
	require.NoError(t, orders.Append("SO00000001", day, "09:00:00", "OR", "1000", "10", "00",
		"CU00000001", "USD", money("1200.00"), "open"))
	require.NoError(t, orders.Append("SO00000002", day, "10:00:00", "OR", "1000", "10", "00",
		"CU00000002", "USD", money("900.00"), "open"))

	opportunities := newTable(t, schema.TableOpportunities)
	require.NoError(t, opportunities.Append("OP00000001", "AC00000001", "Apex - New Business", StageEligible,
		100, money("1000.00"), closeDate, "New Business", "Web", true, true, nil, "U001", day))
	require.NoError(t, opportunities.Append("OP00000002", "AC00000001", "Apex - Upgrade", StageEligible,
		100, money("2000.00"), closeDate, "Upgrade", "Web", true, true, nil, "U001", day))
	require.NoError(t, opportunities.Append("OP00000003", "AC00000003", "Vertex - New Business", "Proposal",
		50, money("500.00"), closeDate, "New Business", "Web", false, false, nil, "U002", day))

	quotes := newTable(t, schema.TableQuotes)
	require.NoError(t, quotes.Append("QT00000001", "Q-000001", "OP00000001", "AC00000001", "Accepted",
		day, money("1000.00"), money("50.00"), money("76.00"), money("1026.00"), day))
	require.NoError(t, quotes.Append("QT00000002", "Q-000002", "OP00000002", "AC00000001", "Accepted",
		day, money("2000.00"), money("0.00"), money("160.00"), money("2160.00"), day))
	require.NoError(t, quotes.Append("QT00000003", "Q-000003", "OP00000003", "AC00000003", "Draft",
		day, money("500.00"), money("0.00"), money("40.00"), money("540.00"), day))

	contacts := newTable(t, schema.TableContacts)
	require.NoError(t, contacts.Append("CT00000001", "AC00000001", "James", "Smith",
		"james.smith@example.com", nil, nil, nil, day))
	require.NoError(t, contacts.Append("CT00000002", "AC00000002", "Mary", "Jones",
		"mary.jones@example.com", nil, nil, nil, day))

	partners := newTable(t, schema.TablePartnerFunctions)
	require.NoError(t, partners.Append("CU00000001", "1000", "10", "00", "sold_to", "CU00000001"))
	require.NoError(t, partners.Append("CU00000001", "1000", "10", "00", "ship_to", "CU00000001"))
	require.NoError(t, partners.Append("CU00000002", "2000", "10", "00", "sold_to", "CU00000002"))

	return Inputs{
		Accounts:         accounts,
		Opportunities:    opportunities,
		Quotes:           quotes,
		Contacts:         contacts,
		Customers:        customers,
		Orders:           orders,
		PartnerFunctions: partners,
	}
}

func statsByPass(result *Result) map[string]PassStats {
	out := make(map[string]PassStats)
	for _, s := range result.Stats {
		out[s.Pass] = s
	}
	return out
}

func TestExclusionIsValueSemantics(t *testing.T) {
	base := NewExclusion()
	extended := base.With("SO00000001", "SO00000002")

	assert.Zero(t, base.Len())
	assert.False(t, base.Contains("SO00000001"))
	assert.Equal(t, 2, extended.Len())
	assert.True(t, extended.Contains("SO00000001"))

	further := extended.With("SO00000003")
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, 3, further.Len())
}

func TestPositionalAccountMatch(t *testing.T) {
	result, err := Resolve(fixture(t))
	require.NoError(t, err)

	links := result.AccountCustomerLinks
	require.Equal(t, 2, links.Len())

	account, _ := links.Value(0, "crm_account_id")
	customer, _ := links.Value(0, "erp_customer_id")
	assert.Equal(t, "AC00000001", account)
	assert.Equal(t, "CU00000001", customer)

	account, _ = links.Value(1, "crm_account_id")
	customer, _ = links.Value(1, "erp_customer_id")
	assert.Equal(t, "AC00000003", account)
	assert.Equal(t, "CU00000002", customer)

	method, _ := links.Value(0, "match_method")
	confidence, _ := links.Value(0, "confidence")
	assert.Equal(t, MethodPositional, method)
	assert.Equal(t, ConfidencePositional, confidence)
}

// With more customer-type accounts than customers the surplus accounts run
// out of candidates; nothing upstream is missing, the list is just shorter.
func TestPositionalMatchStopsAtCustomerListEnd(t *testing.T) {
	in := fixture(t)
	customers := newTable(t, schema.TableCustomers)
	require.NoError(t, customers.Append("CU00000001", "Apex Industries", "US", nil, nil, nil, "0001", nil, day))
	in.Customers = customers

	result, err := Resolve(in)
	require.NoError(t, err)
	require.Equal(t, 1, result.AccountCustomerLinks.Len())

	stats := statsByPass(result)["account_customer"]
	assert.Equal(t, 2, stats.Sources)
	assert.Equal(t, 1, stats.Linked)
	assert.Equal(t, 1, stats.NoCandidate)
	assert.Zero(t, stats.MissingMaster)
}

func TestFirstEligibleConsumesOrders(t *testing.T) {
	result, err := Resolve(fixture(t))
	require.NoError(t, err)

	links := result.OpportunityOrderLinks
	require.Equal(t, 1, links.Len())

	opp, _ := links.Value(0, "crm_opportunity_id")
	order, _ := links.Value(0, "erp_order_number")
	variance, _ := links.Value(0, "amount_variance")
	days, _ := links.Value(0, "days_to_order")
	assert.Equal(t, "OP00000001", opp)
	assert.Equal(t, "SO00000001", order)
	assert.True(t, variance.(decimal.Decimal).Equal(money("-200.00")))
	assert.Equal(t, 9, days)

	stats := statsByPass(result)["opportunity_order"]
	assert.Equal(t, 2, stats.Sources)
	assert.Equal(t, 1, stats.Linked)
	assert.Equal(t, 1, stats.NoCandidate)
	assert.Equal(t, 1, stats.Unlinked())

	assert.True(t, result.Consumed.Contains("SO00000001"))
	assert.Equal(t, 1, result.Consumed.Len())
}

func TestQuoteLinksDeriveFromOpportunityLinks(t *testing.T) {
	result, err := Resolve(fixture(t))
	require.NoError(t, err)

	links := result.QuoteOrderLinks
	require.Equal(t, 1, links.Len())

	quote, _ := links.Value(0, "crm_quote_id")
	order, _ := links.Value(0, "erp_order_number")
	method, _ := links.Value(0, "match_method")
	assert.Equal(t, "QT00000001", quote)
	assert.Equal(t, "SO00000001", order)
	assert.Equal(t, MethodDerived, method)

	stats := statsByPass(result)["quote_order"]
	assert.Equal(t, 2, stats.Sources)
	assert.Equal(t, 1, stats.Linked)
	assert.Equal(t, 1, stats.MissingMaster)
}

func TestContactsJoinSoldToPartner(t *testing.T) {
	result, err := Resolve(fixture(t))
	require.NoError(t, err)

	links := result.ContactPartnerLinks
	require.Equal(t, 1, links.Len())

	contact, _ := links.Value(0, "crm_contact_id")
	customer, _ := links.Value(0, "erp_customer_id")
	role, _ := links.Value(0, "erp_role")
	assert.Equal(t, "CT00000001", contact)
	assert.Equal(t, "CU00000001", customer)
	assert.Equal(t, "sold_to", role)
}

func TestResolveIsDeterministic(t *testing.T) {
	first, err := Resolve(fixture(t))
	require.NoError(t, err)
	second, err := Resolve(fixture(t))
	require.NoError(t, err)

	firstTables := first.Tables()
	secondTables := second.Tables()
	for i := range firstTables {
		require.Equal(t, firstTables[i].Len(), secondTables[i].Len())
		for r := 0; r < firstTables[i].Len(); r++ {
			assert.Equal(t, firstTables[i].Row(r), secondTables[i].Row(r))
		}
	}
}

func TestResolveRejectsMissingInputs(t *testing.T) {
	in := fixture(t)
	in.Orders = nil
	_, err := Resolve(in)
	require.ErrorIs(t, err, generate.ErrMissingUpstream)
}
