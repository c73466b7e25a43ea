// Package linkage joins the CRM and ERP sides of the dataset into
// cross-reference link tables. The two systems are generated independently
// and share no keys; every link is produced by one of four match passes,
// each with a fixed method label and confidence score. A record that no
// pass can link is counted, never an error: unlinkable records are a
// realistic property of the data.
package linkage

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// Match methods and their confidence scores. Positional master matches are
// exact by construction; transactional and derived matches carry lower
// confidence because they rest on heuristics.
const (
	MethodPositional    = "positional"
	MethodFirstEligible = "constrained_first_eligible"
	MethodDerived       = "derived_via_opportunity"
	MethodAccountJoin   = "account_join"

	ConfidencePositional    = 100
	ConfidenceFirstEligible = 80
	ConfidenceDerived       = 70
	ConfidenceAccountJoin   = 90
)

// StageEligible is the opportunity stage eligible for order linkage. Only
// won deals correspond to real orders.
const StageEligible = "Closed Won"

// Link IDs are content-addressed UUIDs so that equal inputs reproduce
// equal link tables.
var linkNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func linkID(kind, left, right string) string {
	return uuid.NewSHA1(linkNamespace, []byte(kind+":"+left+":"+right)).String()
}

// Inputs names the tables the resolver reads. All fields are required.
type Inputs struct {
	Accounts      *table.Table
	Opportunities *table.Table
	Quotes        *table.Table
	Contacts      *table.Table

	Customers        *table.Table
	Orders           *table.Table
	PartnerFunctions *table.Table
}

func (in Inputs) validate() error {
	required := []struct {
		name string
		t    *table.Table
	}{
		{schema.TableAccounts, in.Accounts},
		{schema.TableOpportunities, in.Opportunities},
		{schema.TableQuotes, in.Quotes},
		{schema.TableContacts, in.Contacts},
		{schema.TableCustomers, in.Customers},
		{schema.TableOrders, in.Orders},
		{schema.TablePartnerFunctions, in.PartnerFunctions},
	}
	for _, r := range required {
		if r.t == nil {
			return generate.MissingTable(r.name)
		}
	}
	return nil
}

// PassStats counts the outcomes of one match pass. Sources is the number of
// records the pass considered eligible; MissingMaster counts records whose
// upstream link was absent, NoCandidate counts records for which every
// candidate was already consumed or none existed.
type PassStats struct {
	Pass          string
	Sources       int
	Linked        int
	MissingMaster int
	NoCandidate   int
}

// Unlinked returns the number of eligible records that produced no link.
func (s PassStats) Unlinked() int { return s.MissingMaster + s.NoCandidate }

// MatchRate returns the linked fraction of eligible records, 0 for an
// empty pass.
func (s PassStats) MatchRate() float64 {
	if s.Sources == 0 {
		return 0
	}
	return float64(s.Linked) / float64(s.Sources)
}

// Result holds the four link tables, the per-pass statistics and the final
// exclusion state.
type Result struct {
	AccountCustomerLinks  *table.Table
	OpportunityOrderLinks *table.Table
	QuoteOrderLinks       *table.Table
	ContactPartnerLinks   *table.Table
	Stats                 []PassStats
	Consumed              Exclusion
}

// Tables returns the link tables in declaration order.
func (r *Result) Tables() []*table.Table {
	return []*table.Table{
		r.AccountCustomerLinks, r.OpportunityOrderLinks,
		r.QuoteOrderLinks, r.ContactPartnerLinks,
	}
}

type orderRef struct {
	doc      string
	netValue decimal.Decimal
	currency string
	date     time.Time
}

func mustDef(name string) schema.TableDef {
	def, ok := schema.Lookup(name)
	if !ok {
		panic("unknown table definition: " + name)
	}
	return def
}

// Resolve runs the four match passes in order: accounts to customers,
// opportunities to orders, quotes to orders, contacts to partner functions.
// The exclusion set is threaded through by value; each pass receives the
// state left by its predecessor and returns an extended copy.
func Resolve(in Inputs) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	result := &Result{
		AccountCustomerLinks:  mustDef(schema.TableAccountCustomerLinks).NewTable(),
		OpportunityOrderLinks: mustDef(schema.TableOpportunityOrderLinks).NewTable(),
		QuoteOrderLinks:       mustDef(schema.TableQuoteOrderLinks).NewTable(),
		ContactPartnerLinks:   mustDef(schema.TableContactPartnerLinks).NewTable(),
	}

	accountCustomer, stats, err := matchAccounts(in, result.AccountCustomerLinks)
	if err != nil {
		return nil, err
	}
	result.Stats = append(result.Stats, stats)

	consumed := NewExclusion()
	opportunityOrder, consumed, stats, err := matchOpportunities(in, accountCustomer, consumed, result.OpportunityOrderLinks)
	if err != nil {
		return nil, err
	}
	result.Stats = append(result.Stats, stats)
	result.Consumed = consumed

	stats, err = matchQuotes(in, opportunityOrder, result.QuoteOrderLinks)
	if err != nil {
		return nil, err
	}
	result.Stats = append(result.Stats, stats)

	stats, err = matchContacts(in, accountCustomer, result.ContactPartnerLinks)
	if err != nil {
		return nil, err
	}
	result.Stats = append(result.Stats, stats)

	return result, nil
}

// matchAccounts links customer-type accounts to ERP customers positionally:
// the i-th customer-type account in row order maps to the i-th customer.
// Both sides are generated in a stable order, so the pairing is exact.
func matchAccounts(in Inputs, links *table.Table) (map[string]string, PassStats, error) {
	stats := PassStats{Pass: "account_customer"}
	accountCustomer := make(map[string]string)

	position := 0
	for i := 0; i < in.Accounts.Len(); i++ {
		accountType, _ := in.Accounts.Value(i, "type")
		if !strings.Contains(accountType.(string), "Customer") {
			continue
		}
		stats.Sources++
		// The pairing is constructive over the shorter side: once the
		// customer list is exhausted there is no candidate left, rather
		// than a missing upstream link.
		if position >= in.Customers.Len() {
			stats.NoCandidate++
			continue
		}
		accountID, _ := in.Accounts.Value(i, "id")
		accountNumber, _ := in.Accounts.Value(i, "account_number")
		accountName, _ := in.Accounts.Value(i, "name")
		customerID, _ := in.Customers.Value(position, "customer_id")
		customerName, _ := in.Customers.Value(position, "name")
		country, _ := in.Customers.Value(position, "country")
		position++

		err := links.Append(
			accountID, accountNumber, accountName,
			customerID, customerName, country,
			MethodPositional, ConfidencePositional,
		)
		if err != nil {
			return nil, stats, err
		}
		accountCustomer[accountID.(string)] = customerID.(string)
		stats.Linked++
	}
	return accountCustomer, stats, nil
}

// matchOpportunities links each won opportunity to the first order of its
// linked customer that no earlier match consumed. Candidates are scanned in
// natural row order, so the policy is stable: re-running over the same
// tables yields the same assignment.
func matchOpportunities(in Inputs, accountCustomer map[string]string, consumed Exclusion, links *table.Table) (map[string]orderRef, Exclusion, PassStats, error) {
	stats := PassStats{Pass: "opportunity_order"}
	opportunityOrder := make(map[string]orderRef)

	ordersByCustomer := make(map[string][]orderRef)
	for i := 0; i < in.Orders.Len(); i++ {
		customerID, _ := in.Orders.Value(i, "customer_id")
		doc, _ := in.Orders.Value(i, "doc_number")
		net, _ := in.Orders.Value(i, "net_value")
		currency, _ := in.Orders.Value(i, "currency")
		date, _ := in.Orders.Value(i, "created_date")
		key := customerID.(string)
		ordersByCustomer[key] = append(ordersByCustomer[key], orderRef{
			doc:      doc.(string),
			netValue: net.(decimal.Decimal),
			currency: currency.(string),
			date:     date.(time.Time),
		})
	}

	// Matches made within this pass must be visible to later iterations of
	// the same pass, but the incoming set stays untouched.
	taken := make(map[string]struct{})
	var newlyConsumed []string

	for i := 0; i < in.Opportunities.Len(); i++ {
		stage, _ := in.Opportunities.Value(i, "stage")
		if stage.(string) != StageEligible {
			continue
		}
		stats.Sources++

		accountID, _ := in.Opportunities.Value(i, "account_id")
		customerID, ok := accountCustomer[accountID.(string)]
		if !ok {
			stats.MissingMaster++
			continue
		}

		var match *orderRef
		for _, ref := range ordersByCustomer[customerID] {
			if consumed.Contains(ref.doc) {
				continue
			}
			if _, used := taken[ref.doc]; used {
				continue
			}
			match = &ref
			break
		}
		if match == nil {
			stats.NoCandidate++
			continue
		}
		taken[match.doc] = struct{}{}
		newlyConsumed = append(newlyConsumed, match.doc)

		oppID, _ := in.Opportunities.Value(i, "id")
		amount, _ := in.Opportunities.Value(i, "amount")
		closeDate, _ := in.Opportunities.Value(i, "close_date")
		crmAmount := amount.(decimal.Decimal)
		variance := crmAmount.Sub(match.netValue)
		days := int(match.date.Sub(closeDate.(time.Time)).Hours() / 24)

		err := links.Append(
			linkID("opportunity_order", oppID.(string), match.doc),
			oppID, accountID, crmAmount, closeDate,
			match.doc, customerID, match.netValue, match.currency, match.date,
			MethodFirstEligible, ConfidenceFirstEligible, variance, days,
		)
		if err != nil {
			return nil, consumed, stats, err
		}
		opportunityOrder[oppID.(string)] = *match
		stats.Linked++
	}
	return opportunityOrder, consumed.With(newlyConsumed...), stats, nil
}

// matchQuotes links accepted quotes to orders through the opportunity link
// table. A quote never claims an order of its own; it inherits the one its
// opportunity matched, so the pass consumes nothing from the exclusion set.
func matchQuotes(in Inputs, opportunityOrder map[string]orderRef, links *table.Table) (PassStats, error) {
	stats := PassStats{Pass: "quote_order"}

	for i := 0; i < in.Quotes.Len(); i++ {
		status, _ := in.Quotes.Value(i, "status")
		if status.(string) != "Accepted" {
			continue
		}
		stats.Sources++

		oppID, _ := in.Quotes.Value(i, "opportunity_id")
		ref, ok := opportunityOrder[oppID.(string)]
		if !ok {
			stats.MissingMaster++
			continue
		}

		quoteID, _ := in.Quotes.Value(i, "id")
		quoteNumber, _ := in.Quotes.Value(i, "quote_number")
		total, _ := in.Quotes.Value(i, "total_price")
		totalPrice := total.(decimal.Decimal)

		err := links.Append(
			linkID("quote_order", quoteID.(string), ref.doc),
			quoteID, quoteNumber, oppID, totalPrice,
			ref.doc, ref.netValue,
			MethodDerived, ConfidenceDerived, totalPrice.Sub(ref.netValue),
		)
		if err != nil {
			return stats, err
		}
		stats.Linked++
	}
	return stats, nil
}

// matchContacts joins contacts of linked accounts to the sold-to partner
// function of the matched customer.
func matchContacts(in Inputs, accountCustomer map[string]string, links *table.Table) (PassStats, error) {
	stats := PassStats{Pass: "contact_partner"}

	type partnerRef struct {
		salesOrg string
		role     string
		partner  string
	}
	soldTo := make(map[string]partnerRef)
	for i := 0; i < in.PartnerFunctions.Len(); i++ {
		role, _ := in.PartnerFunctions.Value(i, "role")
		if role.(string) != "sold_to" {
			continue
		}
		customerID, _ := in.PartnerFunctions.Value(i, "customer_id")
		if _, exists := soldTo[customerID.(string)]; exists {
			continue
		}
		salesOrg, _ := in.PartnerFunctions.Value(i, "sales_org")
		partner, _ := in.PartnerFunctions.Value(i, "partner_customer_id")
		soldTo[customerID.(string)] = partnerRef{
			salesOrg: salesOrg.(string),
			role:     role.(string),
			partner:  partner.(string),
		}
	}

	for i := 0; i < in.Contacts.Len(); i++ {
		accountID, _ := in.Contacts.Value(i, "account_id")
		customerID, ok := accountCustomer[accountID.(string)]
		if !ok {
			continue
		}
		stats.Sources++
		ref, ok := soldTo[customerID]
		if !ok {
			stats.NoCandidate++
			continue
		}
		contactID, _ := in.Contacts.Value(i, "id")
		err := links.Append(
			linkID("contact_partner", contactID.(string), customerID),
			contactID, accountID, customerID,
			ref.salesOrg, ref.role, ref.partner,
			MethodAccountJoin, ConfidenceAccountJoin,
		)
		if err != nil {
			return stats, err
		}
		stats.Linked++
	}
	return stats, nil
}
