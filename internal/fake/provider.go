// Package fake provides a seedable source of plausible field values for
// synthetic records. It is deliberately small: value shape matters more than
// variety, and a fixed pool keeps output deterministic across platforms.
package fake

import (
	"fmt"
	"math/rand"
	"strings"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Nancy", "Matthew", "Emily",
	"Andrew", "Olivia", "Peter", "Sophia", "Laura", "Victoria", "Martin", "Grace",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Martin",
	"Lee", "Thompson", "White", "Harris", "Clark", "Lewis", "Walker", "Young",
	"King", "Wright", "Scott", "Hill", "Green", "Baker", "Nelson", "Carter",
}

var companyStems = []string{
	"Apex", "Vertex", "Summit", "Pioneer", "Sterling", "Meridian", "Cascade", "Atlas",
	"Horizon", "Quantum", "Fusion", "Vector", "Nimbus", "Orion", "Zenith", "Delta",
	"Crestline", "Northgate", "Bluefield", "Ironwood", "Redstone", "Silverline",
}

var companySuffixes = []string{
	"Industries", "Systems", "Solutions", "Group", "Technologies", "Manufacturing",
	"Logistics", "Partners", "Holdings", "Dynamics", "Enterprises", "Works",
}

var cities = []string{
	"Springfield", "Riverton", "Fairview", "Lakewood", "Georgetown", "Ashford",
	"Millbrook", "Oakdale", "Brighton", "Kingsport", "Newhaven", "Westfield",
	"Clayton", "Hartwell", "Eastbourne", "Norwood",
}

var streets = []string{
	"Main Street", "Oak Avenue", "Maple Drive", "Industrial Parkway", "Park Road",
	"Commerce Boulevard", "Mill Lane", "Harbor Way", "Station Road", "Elm Street",
	"Market Square", "Ridge Road",
}

var states = []string{
	"CA", "TX", "NY", "FL", "IL", "PA", "OH", "GA", "NC", "MI", "WA", "MA",
}

var emailDomains = []string{
	"example.com", "corp.net", "business.io", "company.org", "mail.com",
}

var productNouns = []string{
	"Widget", "Gadget", "Device", "Component", "Assembly", "Module", "Unit",
	"System", "Part", "Tool",
}

var productGrades = []string{"Pro", "Plus", "Standard", "Premium", "Basic"}

var words = []string{
	"product", "service", "platform", "digital", "cloud", "data", "system",
	"network", "performance", "solution", "integration", "analytics",
	"automation", "management", "enterprise", "scalable", "reliable",
	"efficient", "modern", "advanced", "strategic", "global", "market", "growth",
}

// Provider generates plausible field values from a dedicated seeded source.
// It never shares state with the statistical samplers, so adding or removing
// a fake field cannot shift quantity or date draws.
type Provider struct {
	rng *rand.Rand
}

// NewProvider creates a provider with a deterministic source.
func NewProvider(seed int64) *Provider {
	return &Provider{rng: rand.New(rand.NewSource(seed))}
}

func (p *Provider) pick(pool []string) string {
	return pool[p.rng.Intn(len(pool))]
}

// Company returns a plausible company name.
func (p *Provider) Company() string {
	return p.pick(companyStems) + " " + p.pick(companySuffixes)
}

// FirstName returns a given name.
func (p *Provider) FirstName() string { return p.pick(firstNames) }

// LastName returns a family name.
func (p *Provider) LastName() string { return p.pick(lastNames) }

// City returns a city name.
func (p *Provider) City() string { return p.pick(cities) }

// State returns a two-letter state code.
func (p *Provider) State() string { return p.pick(states) }

// Street returns a street address with a house number.
func (p *Provider) Street() string {
	return fmt.Sprintf("%d %s", 1+p.rng.Intn(9899), p.pick(streets))
}

// PostalCode returns a five-digit postal code.
func (p *Provider) PostalCode() string {
	return fmt.Sprintf("%05d", 10000+p.rng.Intn(89999))
}

// Email builds an address from a person's name and a pooled domain.
func (p *Provider) Email(first, last string) string {
	return strings.ToLower(first) + "." + strings.ToLower(last) + "@" + p.pick(emailDomains)
}

// Domain returns a bare email domain.
func (p *Provider) Domain() string { return p.pick(emailDomains) }

// ProductName returns a material description like "Widget Pro 4711".
func (p *Provider) ProductName() string {
	return fmt.Sprintf("%s %s %d", p.pick(productNouns), p.pick(productGrades), 100+p.rng.Intn(9900))
}

// Sentence returns n pooled words joined as filler text.
func (p *Provider) Sentence(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = p.pick(words)
	}
	return strings.Join(parts, " ")
}
