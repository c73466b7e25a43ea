package schema

import (
	"github.com/salesynth/salesynth/internal/table"
)

// Table names. Persisted identity is the (category, subcategory, name)
// triple declared in Definitions, never a file path.
const (
	TableCompanyCodes         = "company_codes"
	TableSalesOrgs            = "sales_orgs"
	TableDistributionChannels = "distribution_channels"
	TableDivisions            = "divisions"
	TableCustomers            = "customers"
	TablePartnerFunctions     = "partner_functions"
	TableMaterials            = "materials"
	TableMaterialDescriptions = "material_descriptions"

	TableOrders            = "orders"
	TableOrderItems        = "order_items"
	TableDeliveries        = "deliveries"
	TableDeliveryItems     = "delivery_items"
	TableBillingDocuments  = "billing_documents"
	TableBillingItems      = "billing_items"
	TableDocumentFlow      = "document_flow"
	TablePricingConditions = "pricing_conditions"
	TableShipments         = "shipments"
	TableShipmentItems     = "shipment_items"

	TableAccounts      = "accounts"
	TableContacts      = "contacts"
	TableCampaigns     = "campaigns"
	TableLeads         = "leads"
	TableOpportunities = "opportunities"
	TableQuotes        = "quotes"

	TableAccountCustomerLinks  = "account_customer_links"
	TableOpportunityOrderLinks = "opportunity_order_links"
	TableQuoteOrderLinks       = "quote_order_links"
	TableContactPartnerLinks   = "contact_partner_links"
)

// TableDef couples a table identity with its declared column set.
type TableDef struct {
	ID      table.Identity
	Columns []table.Column
}

// NewTable creates an empty table from the definition.
func (d TableDef) NewTable() *table.Table {
	return table.New(d.ID, d.Columns)
}

func col(name string, kind table.Kind) table.Column {
	return table.Column{Name: name, Kind: kind, Required: true}
}

func optional(name string, kind table.Kind) table.Column {
	return table.Column{Name: name, Kind: kind}
}

var definitions = []TableDef{
	{
		ID: table.Identity{Category: "master", Subcategory: "organizational", Name: TableCompanyCodes},
		Columns: []table.Column{
			col("company_code", table.KindID),
			col("name", table.KindText),
			col("currency", table.KindEnum),
			col("country", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "organizational", Name: TableSalesOrgs},
		Columns: []table.Column{
			col("sales_org", table.KindID),
			col("name", table.KindText),
			col("company_code", table.KindID),
			col("currency", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "organizational", Name: TableDistributionChannels},
		Columns: []table.Column{
			col("channel", table.KindID),
			col("name", table.KindText),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "organizational", Name: TableDivisions},
		Columns: []table.Column{
			col("division", table.KindID),
			col("name", table.KindText),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "customer", Name: TableCustomers},
		Columns: []table.Column{
			col("customer_id", table.KindID),
			col("name", table.KindText),
			col("country", table.KindEnum),
			optional("postal_code", table.KindText),
			optional("city", table.KindText),
			optional("street", table.KindText),
			col("account_group", table.KindEnum),
			optional("industry", table.KindEnum),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "customer", Name: TablePartnerFunctions},
		Columns: []table.Column{
			col("customer_id", table.KindID),
			col("sales_org", table.KindID),
			col("channel", table.KindID),
			col("division", table.KindID),
			col("role", table.KindEnum),
			col("partner_customer_id", table.KindID),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "material", Name: TableMaterials},
		Columns: []table.Column{
			col("material_id", table.KindID),
			col("material_type", table.KindEnum),
			col("material_group", table.KindEnum),
			col("base_unit", table.KindEnum),
			optional("product_line", table.KindEnum),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "master", Subcategory: "material", Name: TableMaterialDescriptions},
		Columns: []table.Column{
			col("material_id", table.KindID),
			col("language", table.KindEnum),
			col("description", table.KindText),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "sales_orders", Name: TableOrders},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("created_date", table.KindDate),
			col("created_time", table.KindText),
			col("order_type", table.KindEnum),
			col("sales_org", table.KindID),
			col("channel", table.KindID),
			col("division", table.KindID),
			col("customer_id", table.KindID),
			col("currency", table.KindEnum),
			col("net_value", table.KindMoney),
			col("overall_status", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "sales_orders", Name: TableOrderItems},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("item_number", table.KindID),
			col("material_id", table.KindID),
			optional("description", table.KindText),
			col("quantity", table.KindQuantity),
			col("unit", table.KindEnum),
			col("unit_price", table.KindMoney),
			col("net_value", table.KindMoney),
			col("currency", table.KindEnum),
			col("plant", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "deliveries", Name: TableDeliveries},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("order_number", table.KindID),
			col("created_date", table.KindDate),
			col("goods_issue_date", table.KindDate),
			col("sales_org", table.KindID),
			col("shipping_point", table.KindID),
			col("customer_id", table.KindID),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "deliveries", Name: TableDeliveryItems},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("item_number", table.KindID),
			col("material_id", table.KindID),
			col("quantity", table.KindQuantity),
			col("unit", table.KindEnum),
			col("plant", table.KindEnum),
			col("preceding_doc", table.KindID),
			col("preceding_item", table.KindID),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "billing", Name: TableBillingDocuments},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("billing_type", table.KindEnum),
			col("billing_date", table.KindDate),
			col("delivery_number", table.KindID),
			col("sales_org", table.KindID),
			col("payer_id", table.KindID),
			col("currency", table.KindEnum),
			col("net_value", table.KindMoney),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "billing", Name: TableBillingItems},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("item_number", table.KindID),
			col("material_id", table.KindID),
			col("quantity", table.KindQuantity),
			col("unit", table.KindEnum),
			col("net_value", table.KindMoney),
			col("currency", table.KindEnum),
			col("preceding_doc", table.KindID),
			col("preceding_item", table.KindID),
			col("order_doc", table.KindID),
			col("order_item", table.KindID),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "document_flow", Name: TableDocumentFlow},
		Columns: []table.Column{
			col("preceding_doc", table.KindID),
			col("preceding_item", table.KindID),
			col("succeeding_doc", table.KindID),
			col("succeeding_item", table.KindID),
			col("preceding_category", table.KindEnum),
			col("succeeding_category", table.KindEnum),
			col("quantity", table.KindQuantity),
			col("unit", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "pricing", Name: TablePricingConditions},
		Columns: []table.Column{
			col("doc_number", table.KindID),
			col("item_number", table.KindID),
			col("step", table.KindInteger),
			col("condition_type", table.KindEnum),
			col("amount", table.KindMoney),
			col("currency", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "shipment", Name: TableShipments},
		Columns: []table.Column{
			col("shipment_number", table.KindID),
			col("shipment_type", table.KindEnum),
			col("created_date", table.KindDate),
			col("end_date", table.KindDate),
			col("shipping_point", table.KindID),
			col("carrier", table.KindEnum),
		},
	},
	{
		ID: table.Identity{Category: "transactional", Subcategory: "shipment", Name: TableShipmentItems},
		Columns: []table.Column{
			col("shipment_number", table.KindID),
			col("item_number", table.KindID),
			col("delivery_number", table.KindID),
		},
	},
	{
		ID: table.Identity{Category: "crm", Subcategory: "accounts", Name: TableAccounts},
		Columns: []table.Column{
			col("id", table.KindID),
			col("account_number", table.KindID),
			col("name", table.KindText),
			col("type", table.KindEnum),
			col("industry", table.KindEnum),
			col("annual_revenue", table.KindMoney),
			col("employees", table.KindInteger),
			optional("city", table.KindText),
			optional("state", table.KindText),
			col("rating", table.KindEnum),
			col("owner_id", table.KindID),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "crm", Subcategory: "accounts", Name: TableContacts},
		Columns: []table.Column{
			col("id", table.KindID),
			col("account_id", table.KindID),
			col("first_name", table.KindText),
			col("last_name", table.KindText),
			col("email", table.KindText),
			optional("title", table.KindEnum),
			optional("department", table.KindEnum),
			optional("lead_source", table.KindEnum),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "crm", Subcategory: "marketing", Name: TableCampaigns},
		Columns: []table.Column{
			col("id", table.KindID),
			col("name", table.KindText),
			col("type", table.KindEnum),
			col("status", table.KindEnum),
			col("start_date", table.KindDate),
			col("end_date", table.KindDate),
			col("budgeted_cost", table.KindMoney),
			col("actual_cost", table.KindMoney),
		},
	},
	{
		ID: table.Identity{Category: "crm", Subcategory: "marketing", Name: TableLeads},
		Columns: []table.Column{
			col("id", table.KindID),
			col("first_name", table.KindText),
			col("last_name", table.KindText),
			col("company", table.KindText),
			optional("title", table.KindEnum),
			col("email", table.KindText),
			optional("industry", table.KindEnum),
			col("lead_source", table.KindEnum),
			col("status", table.KindEnum),
			col("rating", table.KindEnum),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "crm", Subcategory: "pipeline", Name: TableOpportunities},
		Columns: []table.Column{
			col("id", table.KindID),
			col("account_id", table.KindID),
			col("name", table.KindText),
			col("stage", table.KindEnum),
			col("probability", table.KindInteger),
			col("amount", table.KindMoney),
			col("close_date", table.KindDate),
			col("type", table.KindEnum),
			col("lead_source", table.KindEnum),
			col("is_closed", table.KindBoolean),
			col("is_won", table.KindBoolean),
			optional("campaign_id", table.KindID),
			col("owner_id", table.KindID),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "crm", Subcategory: "pipeline", Name: TableQuotes},
		Columns: []table.Column{
			col("id", table.KindID),
			col("quote_number", table.KindID),
			col("opportunity_id", table.KindID),
			col("account_id", table.KindID),
			col("status", table.KindEnum),
			col("expiration_date", table.KindDate),
			col("subtotal", table.KindMoney),
			col("discount", table.KindMoney),
			col("tax", table.KindMoney),
			col("total_price", table.KindMoney),
			col("created_date", table.KindDate),
		},
	},
	{
		ID: table.Identity{Category: "cross_reference", Subcategory: "links", Name: TableAccountCustomerLinks},
		Columns: []table.Column{
			col("crm_account_id", table.KindID),
			col("crm_account_number", table.KindID),
			col("crm_account_name", table.KindText),
			col("erp_customer_id", table.KindID),
			col("erp_customer_name", table.KindText),
			col("erp_country", table.KindEnum),
			col("match_method", table.KindEnum),
			col("confidence", table.KindInteger),
		},
	},
	{
		ID: table.Identity{Category: "cross_reference", Subcategory: "links", Name: TableOpportunityOrderLinks},
		Columns: []table.Column{
			col("link_id", table.KindID),
			col("crm_opportunity_id", table.KindID),
			col("crm_account_id", table.KindID),
			col("crm_amount", table.KindMoney),
			col("crm_close_date", table.KindDate),
			col("erp_order_number", table.KindID),
			col("erp_customer_id", table.KindID),
			col("erp_net_value", table.KindMoney),
			col("erp_currency", table.KindEnum),
			col("erp_order_date", table.KindDate),
			col("match_method", table.KindEnum),
			col("confidence", table.KindInteger),
			col("amount_variance", table.KindMoney),
			col("days_to_order", table.KindInteger),
		},
	},
	{
		ID: table.Identity{Category: "cross_reference", Subcategory: "links", Name: TableQuoteOrderLinks},
		Columns: []table.Column{
			col("link_id", table.KindID),
			col("crm_quote_id", table.KindID),
			col("crm_quote_number", table.KindID),
			col("crm_opportunity_id", table.KindID),
			col("crm_total_price", table.KindMoney),
			col("erp_order_number", table.KindID),
			col("erp_net_value", table.KindMoney),
			col("match_method", table.KindEnum),
			col("confidence", table.KindInteger),
			col("amount_variance", table.KindMoney),
		},
	},
	{
		ID: table.Identity{Category: "cross_reference", Subcategory: "links", Name: TableContactPartnerLinks},
		Columns: []table.Column{
			col("link_id", table.KindID),
			col("crm_contact_id", table.KindID),
			col("crm_account_id", table.KindID),
			col("erp_customer_id", table.KindID),
			col("erp_sales_org", table.KindID),
			col("erp_role", table.KindEnum),
			col("erp_partner_customer_id", table.KindID),
			col("match_method", table.KindEnum),
			col("confidence", table.KindInteger),
		},
	},
}

// Definitions returns every declared table definition in declaration order.
func Definitions() []TableDef {
	out := make([]TableDef, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup resolves a table definition by name.
func Lookup(name string) (TableDef, bool) {
	for _, def := range definitions {
		if def.ID.Name == name {
			return def, true
		}
	}
	return TableDef{}, false
}

// DefaultGraph declares the fixed dataset schema: every generated table, its
// foreign-key edges and its cross-table consistency rules. Generation order
// is derived from this graph, not from call sequence.
func DefaultGraph() *Graph {
	g := NewGraph()
	for _, def := range definitions {
		g.AddTable(def.ID.Name)
	}

	edges := []Edge{
		{TableSalesOrgs, "company_code", TableCompanyCodes, "company_code"},
		{TablePartnerFunctions, "customer_id", TableCustomers, "customer_id"},
		{TablePartnerFunctions, "sales_org", TableSalesOrgs, "sales_org"},
		{TablePartnerFunctions, "partner_customer_id", TableCustomers, "customer_id"},
		{TableMaterialDescriptions, "material_id", TableMaterials, "material_id"},
		{TableOrders, "customer_id", TableCustomers, "customer_id"},
		{TableOrders, "sales_org", TableSalesOrgs, "sales_org"},
		{TableOrderItems, "doc_number", TableOrders, "doc_number"},
		{TableOrderItems, "material_id", TableMaterials, "material_id"},
		{TableDeliveries, "order_number", TableOrders, "doc_number"},
		{TableDeliveries, "customer_id", TableCustomers, "customer_id"},
		{TableDeliveryItems, "doc_number", TableDeliveries, "doc_number"},
		{TableDeliveryItems, "preceding_doc", TableOrders, "doc_number"},
		{TableDeliveryItems, "material_id", TableMaterials, "material_id"},
		{TableBillingDocuments, "delivery_number", TableDeliveries, "doc_number"},
		{TableBillingDocuments, "payer_id", TableCustomers, "customer_id"},
		{TableBillingItems, "doc_number", TableBillingDocuments, "doc_number"},
		{TableBillingItems, "preceding_doc", TableDeliveries, "doc_number"},
		{TableBillingItems, "order_doc", TableOrders, "doc_number"},
		{TableBillingItems, "material_id", TableMaterials, "material_id"},
		{TablePricingConditions, "doc_number", TableOrders, "doc_number"},
		{TableShipmentItems, "shipment_number", TableShipments, "shipment_number"},
		{TableShipmentItems, "delivery_number", TableDeliveries, "doc_number"},
		{TableContacts, "account_id", TableAccounts, "id"},
		{TableOpportunities, "account_id", TableAccounts, "id"},
		{TableOpportunities, "campaign_id", TableCampaigns, "id"},
		{TableQuotes, "opportunity_id", TableOpportunities, "id"},
		{TableQuotes, "account_id", TableAccounts, "id"},
		{TableAccountCustomerLinks, "crm_account_id", TableAccounts, "id"},
		{TableAccountCustomerLinks, "erp_customer_id", TableCustomers, "customer_id"},
		{TableOpportunityOrderLinks, "crm_opportunity_id", TableOpportunities, "id"},
		{TableOpportunityOrderLinks, "erp_order_number", TableOrders, "doc_number"},
		{TableQuoteOrderLinks, "crm_quote_id", TableQuotes, "id"},
		{TableQuoteOrderLinks, "erp_order_number", TableOrders, "doc_number"},
		{TableContactPartnerLinks, "crm_contact_id", TableContacts, "id"},
		{TableContactPartnerLinks, "erp_customer_id", TableCustomers, "customer_id"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			// Definitions and edges are both fixed at compile time, so an
			// undeclared endpoint is a programming error.
			panic(err)
		}
	}

	g.AddRule(ConsistencyRule{
		Name:             "order_item_currency_matches_header",
		ChildTable:       TableOrderItems,
		ChildColumn:      "currency",
		ParentTable:      TableOrders,
		ParentColumn:     "currency",
		JoinChildColumn:  "doc_number",
		JoinParentColumn: "doc_number",
	})
	g.AddRule(ConsistencyRule{
		Name:             "billing_item_currency_matches_header",
		ChildTable:       TableBillingItems,
		ChildColumn:      "currency",
		ParentTable:      TableBillingDocuments,
		ParentColumn:     "currency",
		JoinChildColumn:  "doc_number",
		JoinParentColumn: "doc_number",
	})
	return g
}
