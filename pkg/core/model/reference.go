package model

// Reference dealership counts used when the Dealership subscription is priced.
const (
	USDealerships     = 20755
	GlobalDealerships = 35000
)

// DealershipID is the one subscription segment in the reference table.
const DealershipID = "Dealership"

type transactionalRow struct {
	id, description                  string
	price, fee, volume, ltv, network float64
	marketSize, marketVolume, staff  string
}

var transactionalRows = []transactionalRow{
	{"End User", "end user services", 75000, 0.008, 1000000, 500000, 30000000, "$75B", "1M transactions", "500K employees"},
	{"Government Agency", "government services", 75000, 0.008, 50000, 600000, 35000000, "$3.75B", "50K transactions", "25K employees"},
	{"OEM", "OEM services", 40000, 0.03, 200000, 800000, 50000000, "$8B", "200K transactions", "100K employees"},
	{"Dealer Group", "dealer group services", 75000, 0.008, 100000, 700000, 40000000, "$7.5B", "100K transactions", "50K employees"},
	{"Fleet Management Company", "fleet management services", 12500, 0.035, 4500000, 775000, 52264961, "$56.25B", "4.5M transactions", "89.2K employees"},
	{"Equipment Manufacturer", "equipment manufacturing", 40000, 0.07, 300000, 750000, 45000000, "$12B", "300K transactions", "75K employees"},
	{"Upfitter", "upfitting services", 25000, 0.07, 400000, 650000, 38000000, "$10B", "400K transactions", "60K employees"},
	{"Logistics", "logistics services", 5000, 0.07, 2000000, 550000, 32000000, "$10B", "2M transactions", "80K employees"},
	{"Traditional Finance Provider", "traditional financing", 75000, 0.008, 200000, 900000, 60000000, "$15B", "200K transactions", "40K employees"},
	{"Insurance Provider", "insurance services", 5000, 0.035, 1500000, 500000, 28000000, "$7.5B", "1.5M transactions", "35K employees"},
	{"Maintenance Provider", "maintenance services", 3000, 0.035, 3000000, 450000, 25000000, "$9B", "3M transactions", "45K employees"},
	{"Channel Partner", "channel partner services", 15000, 0.035, 500000, 600000, 35000000, "$7.5B", "500K transactions", "30K employees"},
	{"Remarketing Specialists", "remarketing services", 20000, 0.035, 250000, 650000, 38000000, "$5B", "250K transactions", "25K employees"},
	{"Technology Solutions", "technology solutions", 20000, 0.035, 300000, 700000, 42000000, "$6B", "300K transactions", "40K employees"},
	{"Charging OEM", "charging OEM services", 15000, 0.035, 200000, 600000, 35000000, "$3B", "200K transactions", "20K employees"},
	{"Charging as a Service", "charging as a service", 1000000, 0.008, 5000, 1200000, 80000000, "$5B", "5K transactions", "15K employees"},
	{"EPC", "EPC services", 100000, 0.02, 10000, 1000000, 70000000, "$1B", "10K transactions", "8K employees"},
	{"Depot", "depot services", 12500, 0.035, 800000, 550000, 32000000, "$10B", "800K transactions", "50K employees"},
	{"Utility Provider", "utility services", 20000, 0.035, 150000, 650000, 38000000, "$3B", "150K transactions", "20K employees"},
	{"Grant Administrator", "grant administration", 20000, 0.035, 50000, 600000, 35000000, "$1B", "50K transactions", "10K employees"},
	{"EV Finance Provider", "EV financing", 150000, 0.008, 100000, 1100000, 75000000, "$15B", "100K transactions", "25K employees"},
	{"Operating and Maintenance Provider", "operating and maintenance", 50000, 0.02, 200000, 800000, 50000000, "$10B", "200K transactions", "30K employees"},
}

// DealershipLineItems is the monthly tech-stack bundle a dealership pays for.
func DealershipLineItems() []LineItem {
	return []LineItem{
		{ID: "DMS", Description: "Dealer Management System", MonthlyCost: 8500},
		{ID: "CRM", Description: "Customer Relationship Management", MonthlyCost: 2500},
		{ID: "Inventory Management", Description: "Inventory tracking and management", MonthlyCost: 2100},
		{ID: "Digital Retailing", Description: "Online sales platform", MonthlyCost: 1500},
		{ID: "Service/Repair Tools", Description: "Service management software", MonthlyCost: 1300},
		{ID: "Website Platforms", Description: "Dealer website and hosting", MonthlyCost: 1700},
		{ID: "Marketing Tools", Description: "Digital marketing automation", MonthlyCost: 800},
		{ID: "F&I Systems", Description: "Finance and insurance tools", MonthlyCost: 500},
	}
}

// ReferenceSegments returns a fresh copy of the built-in business model table:
// the Dealership subscription followed by the transactional segments.
func ReferenceSegments() []Segment {
	segments := make([]Segment, 0, len(transactionalRows)+1)
	segments = append(segments, Segment{
		ID:           DealershipID,
		Description:  "Subscription-based technology platform for dealerships",
		LTV:          641250,
		NetworkLTV:   46200836,
		MarketSize:   "$1.37T",
		MarketVolume: "20,755 dealerships",
		Employees:    "1.26M employees",
		Model: Subscription{
			MonthlyRevenue: 18700,
			AnnualRevenue:  224000,
			LineItems:      DealershipLineItems(),
			UnitCounts: map[Region]float64{
				RegionUS:     USDealerships,
				RegionGlobal: GlobalDealerships,
			},
		},
	})

	for _, r := range transactionalRows {
		segments = append(segments, Segment{
			ID:           r.id,
			Description:  "Transactional fees for " + r.description,
			LTV:          r.ltv,
			NetworkLTV:   r.network,
			MarketSize:   r.marketSize,
			MarketVolume: r.marketVolume,
			Employees:    r.staff,
			Model:        Transactional{UnitPrice: r.price, FeeRate: r.fee, Volume: r.volume},
		})
	}
	return segments
}
