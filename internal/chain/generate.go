// Package chain generates the cascading ERP document chain: sales orders
// with items, deliveries for a configurable fraction of orders, billing
// documents for a fraction of the delivered orders, plus the document flow
// ledger, pricing conditions and shipments derived from them.
//
// The chain is planned fully in memory before any table row is written.
// Downstream stages (delivery, billing, shipment) are selected up front so
// that header fields depending on them, such as the order status, are final
// when the row is appended. Partial fulfillment is intentional: an order
// without a delivery, or a delivery without billing, is legitimate data.
package chain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/master"
	"github.com/salesynth/salesynth/internal/sample"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// Config controls chain generation. Fractions are applied per stage:
// DeliveryFraction of all orders get a delivery, BillingFraction of the
// delivered orders get a billing document, ShipmentFraction of all
// deliveries are grouped into shipments.
type Config struct {
	Days              int
	OrdersPerDay      int
	StartDate         time.Time
	ItemsPerOrderMean float64
	QuantityMu        float64
	QuantitySigma     float64
	UnitPriceMin      float64
	UnitPriceMax      float64
	BillingPriceMin   float64
	BillingPriceMax   float64
	DeliveryFraction  float64
	BillingFraction   float64
	ShipmentFraction  float64
	Seed              int64
}

func (c Config) validate() error {
	if c.Days <= 0 {
		return generate.ConfigErrorf("days must be positive, got %d", c.Days)
	}
	if c.OrdersPerDay <= 0 {
		return generate.ConfigErrorf("orders per day must be positive, got %d", c.OrdersPerDay)
	}
	if c.StartDate.IsZero() {
		return generate.ConfigErrorf("start date must be set")
	}
	if c.ItemsPerOrderMean <= 0 {
		return generate.ConfigErrorf("items per order mean must be positive, got %g", c.ItemsPerOrderMean)
	}
	if c.UnitPriceMin <= 0 || c.UnitPriceMax < c.UnitPriceMin {
		return generate.ConfigErrorf("unit price range [%g, %g] is invalid", c.UnitPriceMin, c.UnitPriceMax)
	}
	if c.BillingPriceMin <= 0 || c.BillingPriceMax < c.BillingPriceMin {
		return generate.ConfigErrorf("billing price range [%g, %g] is invalid", c.BillingPriceMin, c.BillingPriceMax)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"delivery fraction", c.DeliveryFraction},
		{"billing fraction", c.BillingFraction},
		{"shipment fraction", c.ShipmentFraction},
	} {
		if f.value < 0 || f.value > 1 {
			return generate.ConfigErrorf("%s must be within [0, 1], got %g", f.name, f.value)
		}
	}
	return nil
}

// Set holds the generated transactional tables.
type Set struct {
	Orders            *table.Table
	OrderItems        *table.Table
	Deliveries        *table.Table
	DeliveryItems     *table.Table
	BillingDocuments  *table.Table
	BillingItems      *table.Table
	DocumentFlow      *table.Table
	PricingConditions *table.Table
	Shipments         *table.Table
	ShipmentItems     *table.Table
}

// Tables returns the generated tables in dependency order.
func (s *Set) Tables() []*table.Table {
	return []*table.Table{
		s.Orders, s.OrderItems, s.Deliveries, s.DeliveryItems,
		s.BillingDocuments, s.BillingItems, s.DocumentFlow,
		s.PricingConditions, s.Shipments, s.ShipmentItems,
	}
}

// Document flow categories, matching the usual ERP document type letters.
const (
	categoryOrder    = "C"
	categoryDelivery = "J"
	categoryInvoice  = "M"
)

// Order statuses derived from how far a chain reaches.
const (
	statusOpen      = "open"
	statusInProcess = "in_process"
	statusCompleted = "completed"
)

// OrderID formats the document number of the i-th generated order.
func OrderID(i int) string { return fmt.Sprintf("SO%08d", 1+i) }

// DeliveryID formats the document number of the i-th generated delivery.
func DeliveryID(i int) string { return fmt.Sprintf("DN%08d", 1+i) }

// BillingID formats the document number of the i-th billing document.
func BillingID(i int) string { return fmt.Sprintf("IV%08d", 1+i) }

// ShipmentID formats the number of the i-th generated shipment.
func ShipmentID(i int) string { return fmt.Sprintf("SH%08d", 1+i) }

func itemNumber(i int) string { return fmt.Sprintf("%06d", (i+1)*10) }

type orderItemPlan struct {
	number    string
	material  string
	unit      string
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	netValue  decimal.Decimal
}

type orderPlan struct {
	doc        string
	date       time.Time
	timeOfDay  string
	salesOrg   string
	channel    string
	division   string
	currency   string
	customerID string
	items      []orderItemPlan
	netValue   decimal.Decimal
	status     string
}

type deliveryPlan struct {
	doc           string
	orderIdx      int
	created       time.Time
	goodsIssue    time.Time
	shippingPoint string
}

type billingPlan struct {
	doc         string
	deliveryIdx int
	date        time.Time
	items       []decimal.Decimal
	netValue    decimal.Decimal
}

// Generate produces the full document chain from the given master tables.
// All randomness flows through a single sampler in a fixed stage order, so
// equal inputs reproduce the output exactly.
func Generate(customers, materials, salesOrgs *table.Table, cfg Config) (*Set, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if customers == nil {
		return nil, generate.MissingTable(schema.TableCustomers)
	}
	if materials == nil {
		return nil, generate.MissingTable(schema.TableMaterials)
	}
	if salesOrgs == nil {
		return nil, generate.MissingTable(schema.TableSalesOrgs)
	}
	if customers.Len() == 0 {
		return nil, generate.ConfigErrorf("customer table is empty")
	}
	if materials.Len() == 0 {
		return nil, generate.ConfigErrorf("material table is empty")
	}
	if salesOrgs.Len() == 0 {
		return nil, generate.ConfigErrorf("sales org table is empty")
	}

	sampler := sample.New(cfg.Seed)

	orders := planOrders(customers, materials, salesOrgs, cfg, sampler)
	deliveries := planDeliveries(orders, cfg, sampler)
	billings := planBillings(orders, deliveries, cfg, sampler)

	for _, d := range deliveries {
		if orders[d.orderIdx].status == statusOpen {
			orders[d.orderIdx].status = statusInProcess
		}
	}
	for _, b := range billings {
		orders[deliveries[b.deliveryIdx].orderIdx].status = statusCompleted
	}

	return materialize(orders, deliveries, billings, cfg, sampler)
}

// orgWeights returns the sales org draw weights when they cover every row
// of the provided table, otherwise uniform weights.
func orgWeights(rows int) []float64 {
	if rows == len(master.SalesOrgWeights) {
		return master.SalesOrgWeights
	}
	out := make([]float64, rows)
	for i := range out {
		out[i] = 1
	}
	return out
}

func planOrders(customers, materials, salesOrgs *table.Table, cfg Config, sampler *sample.Sampler) []orderPlan {
	n := cfg.Days * cfg.OrdersPerDay

	customerIdxs := sampler.Indexes(n, customers.Len())
	orgIdxs := sampler.WeightedIndexes(n, orgWeights(salesOrgs.Len()))
	channels := sampler.WeightedChoices(n, master.ChannelCodes, master.ChannelWeights)
	divisions := sampler.WeightedChoices(n, master.DivisionCodes, master.DivisionWeights)
	hours := sampler.IntsBetween(n, 8, 19)
	minutes := sampler.IntsBetween(n, 0, 59)
	seconds := sampler.IntsBetween(n, 0, 59)
	itemCounts := sampler.PoissonMin(n, cfg.ItemsPerOrderMean, 1)

	total := 0
	for _, c := range itemCounts {
		total += c
	}
	materialIdxs := sampler.Indexes(total, materials.Len())
	quantities := sampler.LogNormals(total, cfg.QuantityMu, cfg.QuantitySigma)
	unitPrices := sampler.Uniforms(total, cfg.UnitPriceMin, cfg.UnitPriceMax)

	orders := make([]orderPlan, n)
	next := 0
	for i := 0; i < n; i++ {
		day := i / cfg.OrdersPerDay
		org := salesOrgs.Row(orgIdxs[i])
		customerID, _ := customers.Value(customerIdxs[i], "customer_id")

		o := orderPlan{
			doc:        OrderID(i),
			date:       cfg.StartDate.AddDate(0, 0, day),
			timeOfDay:  fmt.Sprintf("%02d:%02d:%02d", hours[i], minutes[i], seconds[i]),
			salesOrg:   org[0].(string),
			channel:    channels[i],
			division:   divisions[i],
			currency:   org[3].(string),
			customerID: customerID.(string),
			status:     statusOpen,
			netValue:   decimal.Zero,
		}
		for j := 0; j < itemCounts[i]; j++ {
			qty := int64(quantities[next])
			if qty < 1 {
				qty = 1
			}
			materialID, _ := materials.Value(materialIdxs[next], "material_id")
			unit, _ := materials.Value(materialIdxs[next], "base_unit")
			quantity := decimal.NewFromInt(qty)
			price := decimal.NewFromFloat(unitPrices[next]).Round(2)
			item := orderItemPlan{
				number:    itemNumber(j),
				material:  materialID.(string),
				unit:      unit.(string),
				quantity:  quantity,
				unitPrice: price,
				netValue:  price.Mul(quantity),
			}
			o.items = append(o.items, item)
			o.netValue = o.netValue.Add(item.netValue)
			next++
		}
		orders[i] = o
	}
	return orders
}

func planDeliveries(orders []orderPlan, cfg Config, sampler *sample.Sampler) []deliveryPlan {
	k := int(float64(len(orders))*cfg.DeliveryFraction + 0.5)
	picked := sampler.WithoutReplacement(len(orders), k)
	lags := sampler.IntsBetween(len(picked), 1, 7)

	deliveries := make([]deliveryPlan, len(picked))
	for i, orderIdx := range picked {
		created := orders[orderIdx].date.AddDate(0, 0, lags[i])
		deliveries[i] = deliveryPlan{
			doc:           DeliveryID(i),
			orderIdx:      orderIdx,
			created:       created,
			goodsIssue:    created,
			shippingPoint: "SP" + orders[orderIdx].salesOrg[:2],
		}
	}
	return deliveries
}

func planBillings(orders []orderPlan, deliveries []deliveryPlan, cfg Config, sampler *sample.Sampler) []billingPlan {
	k := int(float64(len(deliveries))*cfg.BillingFraction + 0.5)
	picked := sampler.WithoutReplacement(len(deliveries), k)
	lags := sampler.IntsBetween(len(picked), 0, 3)

	total := 0
	for _, deliveryIdx := range picked {
		total += len(orders[deliveries[deliveryIdx].orderIdx].items)
	}
	prices := sampler.Uniforms(total, cfg.BillingPriceMin, cfg.BillingPriceMax)

	billings := make([]billingPlan, len(picked))
	next := 0
	for i, deliveryIdx := range picked {
		d := deliveries[deliveryIdx]
		order := orders[d.orderIdx]
		b := billingPlan{
			doc:         BillingID(i),
			deliveryIdx: deliveryIdx,
			date:        d.goodsIssue.AddDate(0, 0, lags[i]),
			netValue:    decimal.Zero,
		}
		for _, item := range order.items {
			net := decimal.NewFromFloat(prices[next]).Round(2).Mul(item.quantity)
			next++
			b.items = append(b.items, net)
			b.netValue = b.netValue.Add(net)
		}
		billings[i] = b
	}
	return billings
}

func mustDef(name string) schema.TableDef {
	def, ok := schema.Lookup(name)
	if !ok {
		panic("unknown table definition: " + name)
	}
	return def
}

func materialize(orders []orderPlan, deliveries []deliveryPlan, billings []billingPlan, cfg Config, sampler *sample.Sampler) (*Set, error) {
	set := &Set{
		Orders:            mustDef(schema.TableOrders).NewTable(),
		OrderItems:        mustDef(schema.TableOrderItems).NewTable(),
		Deliveries:        mustDef(schema.TableDeliveries).NewTable(),
		DeliveryItems:     mustDef(schema.TableDeliveryItems).NewTable(),
		BillingDocuments:  mustDef(schema.TableBillingDocuments).NewTable(),
		BillingItems:      mustDef(schema.TableBillingItems).NewTable(),
		DocumentFlow:      mustDef(schema.TableDocumentFlow).NewTable(),
		PricingConditions: mustDef(schema.TablePricingConditions).NewTable(),
		Shipments:         mustDef(schema.TableShipments).NewTable(),
		ShipmentItems:     mustDef(schema.TableShipmentItems).NewTable(),
	}

	if err := writeOrders(set, orders); err != nil {
		return nil, err
	}
	if err := writeDeliveries(set, orders, deliveries); err != nil {
		return nil, err
	}
	if err := writeBillings(set, orders, deliveries, billings); err != nil {
		return nil, err
	}
	if err := writeShipments(set, deliveries, cfg, sampler); err != nil {
		return nil, err
	}
	return set, nil
}

func writeOrders(set *Set, orders []orderPlan) error {
	discountRate := decimal.NewFromFloat(-0.05)
	taxRate := decimal.NewFromFloat(0.08)

	for _, o := range orders {
		err := set.Orders.Append(
			o.doc, o.date, o.timeOfDay, "OR", o.salesOrg, o.channel,
			o.division, o.customerID, o.currency, o.netValue, o.status,
		)
		if err != nil {
			return err
		}
		for _, item := range o.items {
			err := set.OrderItems.Append(
				o.doc, item.number, item.material, nil, item.quantity,
				item.unit, item.unitPrice, item.netValue, o.currency, o.salesOrg,
			)
			if err != nil {
				return err
			}
			// Three condition steps per item: base price, discount, tax on
			// the discounted amount.
			base := item.netValue
			discount := base.Mul(discountRate).Round(2)
			tax := base.Add(discount).Mul(taxRate).Round(2)
			for step, cond := range []struct {
				kind   string
				amount decimal.Decimal
			}{
				{"PR00", base}, {"K007", discount}, {"MWST", tax},
			} {
				err := set.PricingConditions.Append(
					o.doc, item.number, step+1, cond.kind, cond.amount, o.currency,
				)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeDeliveries(set *Set, orders []orderPlan, deliveries []deliveryPlan) error {
	for _, d := range deliveries {
		order := orders[d.orderIdx]
		err := set.Deliveries.Append(
			d.doc, order.doc, d.created, d.goodsIssue, order.salesOrg,
			d.shippingPoint, order.customerID,
		)
		if err != nil {
			return err
		}
		// Delivery items mirror the order items of their own order in full,
		// so quantity is conserved along the chain.
		for j, item := range order.items {
			number := itemNumber(j)
			err := set.DeliveryItems.Append(
				d.doc, number, item.material, item.quantity, item.unit,
				order.salesOrg, order.doc, item.number,
			)
			if err != nil {
				return err
			}
			err = set.DocumentFlow.Append(
				order.doc, item.number, d.doc, number,
				categoryOrder, categoryDelivery, item.quantity, item.unit,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeBillings(set *Set, orders []orderPlan, deliveries []deliveryPlan, billings []billingPlan) error {
	for _, b := range billings {
		d := deliveries[b.deliveryIdx]
		order := orders[d.orderIdx]
		err := set.BillingDocuments.Append(
			b.doc, "F2", b.date, d.doc, order.salesOrg, order.customerID,
			order.currency, b.netValue,
		)
		if err != nil {
			return err
		}
		for j, item := range order.items {
			number := itemNumber(j)
			err := set.BillingItems.Append(
				b.doc, number, item.material, item.quantity, item.unit,
				b.items[j], order.currency, d.doc, number, order.doc, item.number,
			)
			if err != nil {
				return err
			}
			err = set.DocumentFlow.Append(
				d.doc, number, b.doc, number,
				categoryDelivery, categoryInvoice, item.quantity, item.unit,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	groupSizes       = []int{1, 2, 3}
	groupSizeWeights = []float64{0.6, 0.3, 0.1}
	carriers         = []string{"CARR1", "CARR2", "CARR3", "CARR4", "CARR5"}
)

func writeShipments(set *Set, deliveries []deliveryPlan, cfg Config, sampler *sample.Sampler) error {
	k := int(float64(len(deliveries))*cfg.ShipmentFraction + 0.5)
	picked := sampler.WithoutReplacement(len(deliveries), k)

	shipment := 0
	for start := 0; start < len(picked); {
		size := groupSizes[sampler.WeightedIndex(groupSizeWeights)]
		if start+size > len(picked) {
			size = len(picked) - start
		}
		group := picked[start : start+size]
		start += size

		// A shipment cannot depart before its last delivery is issued.
		created := deliveries[group[0]].goodsIssue
		for _, idx := range group[1:] {
			if deliveries[idx].goodsIssue.After(created) {
				created = deliveries[idx].goodsIssue
			}
		}
		end := created.AddDate(0, 0, sampler.IntBetween(1, 3))

		doc := ShipmentID(shipment)
		shipment++
		err := set.Shipments.Append(
			doc, "0001", created, end,
			deliveries[group[0]].shippingPoint, sampler.Choice(carriers),
		)
		if err != nil {
			return err
		}
		for j, idx := range group {
			if err := set.ShipmentItems.Append(doc, itemNumber(j), deliveries[idx].doc); err != nil {
				return err
			}
		}
	}
	return nil
}
