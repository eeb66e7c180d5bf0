package ingest

import "strings"

// Stakeholder is one row of the partner CSV export.
type Stakeholder struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Products         []string `json:"products"`
	Status           string   `json:"status"`
	ContractExecuted string   `json:"contract_executed"`
	BroughtOnBy      string   `json:"brought_on_by"`
	Comments         string   `json:"comments"`
	LastEdited       string   `json:"last_edited"`
}

// HasProduct reports whether the stakeholder lists product.
func (s Stakeholder) HasProduct(product string) bool {
	for _, p := range s.Products {
		if p == product {
			return true
		}
	}
	return false
}

// ParseStakeholders maps CSV text onto stakeholders. Missing trailing columns
// read as empty strings.
func ParseStakeholders(text string) []Stakeholder {
	records := ParseRecords(text)
	out := make([]Stakeholder, 0, len(records))
	for _, rec := range records {
		col := func(i int) string {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}
		out = append(out, Stakeholder{
			Name:             col(0),
			Type:             col(1),
			Products:         SplitProducts(col(2)),
			Status:           col(3),
			ContractExecuted: col(4),
			BroughtOnBy:      col(5),
			Comments:         col(6),
			LastEdited:       col(7),
		})
	}
	return out
}

// SplitProducts splits a comma-separated product list, dropping empties.
func SplitProducts(s string) []string {
	products := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			products = append(products, p)
		}
	}
	return products
}

// DedupeRule decides which of two records with the same name survives. The
// first record is kept unless a later one has PreferType and lists
// PreferProduct.
type DedupeRule struct {
	PreferType    string `yaml:"prefer_type"`
	PreferProduct string `yaml:"prefer_product"`
}

// DefaultDedupeRule prefers the End-User record that carries Order Management.
var DefaultDedupeRule = DedupeRule{PreferType: "End-User", PreferProduct: "Order Management"}

func (r DedupeRule) prefers(s Stakeholder) bool {
	if r.PreferType == "" && r.PreferProduct == "" {
		return false
	}
	return s.Type == r.PreferType && (r.PreferProduct == "" || s.HasProduct(r.PreferProduct))
}

// Dedupe returns one stakeholder per name, in first-seen order.
func Dedupe(list []Stakeholder, rule DedupeRule) []Stakeholder {
	index := make(map[string]int, len(list))
	out := make([]Stakeholder, 0, len(list))
	for _, s := range list {
		i, seen := index[s.Name]
		if !seen {
			index[s.Name] = len(out)
			out = append(out, s)
			continue
		}
		if rule.prefers(s) {
			out[i] = s
		}
	}
	return out
}
