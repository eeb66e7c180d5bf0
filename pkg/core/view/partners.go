// Package view turns a loaded dataset plus an explicit, serializable view
// state into what a dashboard screen shows. Every transform is pure.
package view

import (
	"math"
	"sort"
	"strings"

	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/fixtures"
	"investor_dashboard/pkg/core/ingest"
	"investor_dashboard/pkg/core/metric"
)

// Partner table columns.
const (
	ColumnName     = "name"
	ColumnType     = "type"
	ColumnProducts = "products"
)

// Columns lists every sortable and filterable partner column.
var Columns = []string{
	ColumnName, ColumnType, ColumnProducts,
	string(metric.KindRevenue), string(metric.KindVolume), string(metric.KindEmployees),
	fixtures.ReachDealers, fixtures.ReachOEMs, fixtures.ReachUpfitters, fixtures.ReachEquipmentMfg, fixtures.ReachBuyers,
}

// IsColumn reports whether name is a partner column.
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// AnyValue disables the type or product filter, as does the empty string.
const AnyValue = "all"

// Range bounds a metric filter. A nil bound is open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (r Range) contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// PartnerState is the complete view state of the partner table.
type PartnerState struct {
	Search        string                `json:"search"`
	Type          string                `json:"type"`
	Product       string                `json:"product"`
	ColumnFilters map[string]string     `json:"column_filters,omitempty"`
	Ranges        map[metric.Kind]Range `json:"ranges,omitempty"`
	SortColumn    string                `json:"sort_column"`
	SortDirection SortDirection         `json:"sort_direction"`
	Page          int                   `json:"page"`
	PerPage       int                   `json:"per_page"`
	Selected      []string              `json:"selected,omitempty"`
}

// DefaultPartnerState sorts by revenue, largest first, on page one.
func DefaultPartnerState(perPage int) PartnerState {
	return PartnerState{
		SortColumn:    string(metric.KindRevenue),
		SortDirection: SortDesc,
		Page:          1,
		PerPage:       perPage,
	}
}

// MetricCell is one formatted partner metric.
type MetricCell struct {
	Display   string  `json:"display"`
	Raw       string  `json:"raw"`
	Value     float64 `json:"value"`
	Estimate  bool    `json:"estimate"`
	Rationale string  `json:"rationale,omitempty"`
	Source    string  `json:"source,omitempty"`
}

// PartnerRow is one partner as the table shows it.
type PartnerRow struct {
	ingest.Stakeholder
	HasMetrics bool                       `json:"has_metrics"`
	Metrics    map[metric.Kind]MetricCell `json:"metrics"`
	Reach      map[string]string          `json:"reach"`
	Selected   bool                       `json:"selected"`
}

// Facet is a filter option with how many partners carry it.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Bounds is the observed span of a metric.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NetworkStats sums partner reach.
type NetworkStats struct {
	Dealers       int `json:"dealers"`
	OEMs          int `json:"oems"`
	Upfitters     int `json:"upfitters"`
	EquipmentMfg  int `json:"equipment_mfg"`
	Buyers        int `json:"buyers"`
	TotalReach    int `json:"total_reach"`
	SelectedCount int `json:"selected_count"`
}

// PartnerPage is the result of applying a PartnerState.
type PartnerPage struct {
	State        PartnerState           `json:"state"`
	Rows         []PartnerRow           `json:"rows"`
	Matched      int                    `json:"matched"`
	Total        int                    `json:"total"`
	TotalPages   int                    `json:"total_pages"`
	Types        []Facet                `json:"types"`
	Products     []Facet                `json:"products"`
	MetricRanges map[metric.Kind]Bounds `json:"metric_ranges"`
	Network      NetworkStats           `json:"network"`
}

// ApplyPartners filters, sorts and paginates the partners of ds.
func ApplyPartners(ds *dataset.Dataset, state PartnerState, defaultPerPage int) PartnerPage {
	state = normalizeState(state, defaultPerPage)

	selected := make(map[string]bool, len(state.Selected))
	for _, name := range state.Selected {
		selected[name] = true
	}

	// 1. Build and filter rows
	var matched []PartnerRow
	for _, s := range ds.Stakeholders {
		row := buildRow(ds, s)
		row.Selected = selected[s.Name]
		if matches(row, state) {
			matched = append(matched, row)
		}
	}

	// 2. Sort
	sortRows(matched, state.SortColumn, state.SortDirection)

	// 3. Paginate
	totalPages := int(math.Ceil(float64(len(matched)) / float64(state.PerPage)))
	if state.Page > totalPages {
		state.Page = max(totalPages, 1)
	}
	start := (state.Page - 1) * state.PerPage
	end := min(start+state.PerPage, len(matched))
	rows := []PartnerRow{}
	if start < end {
		rows = matched[start:end]
	}

	return PartnerPage{
		State:        state,
		Rows:         rows,
		Matched:      len(matched),
		Total:        len(ds.Stakeholders),
		TotalPages:   totalPages,
		Types:        typeFacets(ds.Stakeholders),
		Products:     productFacets(ds.Stakeholders),
		MetricRanges: metricRanges(ds),
		Network:      networkStats(ds, selected),
	}
}

func normalizeState(state PartnerState, defaultPerPage int) PartnerState {
	if state.PerPage <= 0 {
		state.PerPage = defaultPerPage
	}
	if state.PerPage <= 0 {
		state.PerPage = 10
	}
	if state.Page < 1 {
		state.Page = 1
	}
	if state.SortColumn != "" && !IsColumn(state.SortColumn) {
		state.SortColumn = string(metric.KindRevenue)
	}
	if state.SortDirection != SortAsc {
		state.SortDirection = SortDesc
	}
	return state
}

func buildRow(ds *dataset.Dataset, s ingest.Stakeholder) PartnerRow {
	row := PartnerRow{
		Stakeholder: s,
		Reach:       make(map[string]string, len(fixtures.ReachColumns)),
	}
	network := ds.Network[s.Name]
	for _, col := range fixtures.ReachColumns {
		row.Reach[col] = network.Reach(col)
	}

	m, ok := ds.Metrics[s.Name]
	row.HasMetrics = ok
	row.Metrics = make(map[metric.Kind]MetricCell, len(metric.Kinds))
	for _, kind := range metric.Kinds {
		entry := m.Entry(kind)
		rec := entry.Record()
		row.Metrics[kind] = MetricCell{
			Display:   metric.FormatDisplay(entry.Display, kind),
			Raw:       entry.Display,
			Value:     metric.ParseMagnitude(entry.Display),
			Estimate:  rec.SourceKind == metric.SourceEstimated,
			Rationale: entry.Rationale,
			Source:    rec.Source,
		}
	}
	return row
}

func matches(row PartnerRow, state PartnerState) bool {
	if q := strings.ToLower(state.Search); q != "" {
		hit := strings.Contains(strings.ToLower(row.Name), q) ||
			strings.Contains(strings.ToLower(row.Type), q)
		for _, p := range row.Products {
			hit = hit || strings.Contains(strings.ToLower(p), q)
		}
		if !hit {
			return false
		}
	}

	if state.Type != "" && state.Type != AnyValue && row.Type != state.Type {
		return false
	}

	if state.Product != "" && state.Product != AnyValue {
		found := false
		for _, p := range row.Products {
			if strings.EqualFold(strings.TrimSpace(p), state.Product) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Partners without metrics are never excluded by a range.
	if row.HasMetrics {
		for kind, r := range state.Ranges {
			if !r.contains(row.Metrics[kind].Value) {
				return false
			}
		}
	}

	for column, filter := range state.ColumnFilters {
		if filter == "" {
			continue
		}
		if !columnMatches(row, column, strings.ToLower(filter)) {
			return false
		}
	}
	return true
}

func columnMatches(row PartnerRow, column, filter string) bool {
	if column == ColumnProducts {
		for _, p := range row.Products {
			if strings.Contains(strings.ToLower(p), filter) {
				return true
			}
		}
		return false
	}
	if !IsColumn(column) {
		return true
	}
	return strings.Contains(strings.ToLower(cellText(row, column)), filter)
}

// cellText is the text a column shows for row.
func cellText(row PartnerRow, column string) string {
	switch column {
	case ColumnName:
		return row.Name
	case ColumnType:
		return row.Type
	case ColumnProducts:
		return strings.Join(row.Products, ", ")
	case string(metric.KindRevenue), string(metric.KindVolume), string(metric.KindEmployees):
		if !row.HasMetrics {
			return metric.NotAvailable
		}
		return row.Metrics[metric.Kind(column)].Display
	}
	if v, ok := row.Reach[column]; ok {
		return v
	}
	return ""
}

func sortRows(rows []PartnerRow, column string, dir SortDirection) {
	if column == "" {
		return
	}
	less := func(a, b PartnerRow) int {
		switch column {
		case ColumnName, ColumnType, ColumnProducts:
			return strings.Compare(strings.ToLower(cellText(a, column)), strings.ToLower(cellText(b, column)))
		case string(metric.KindRevenue), string(metric.KindVolume), string(metric.KindEmployees):
			return compareFloat(a.Metrics[metric.Kind(column)].Value, b.Metrics[metric.Kind(column)].Value)
		}
		return compareFloat(float64(metric.ParseCount(a.Reach[column])), float64(metric.ParseCount(b.Reach[column])))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := less(rows[i], rows[j])
		if dir == SortAsc {
			return c < 0
		}
		return c > 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func typeFacets(list []ingest.Stakeholder) []Facet {
	counts := map[string]int{}
	for _, s := range list {
		counts[s.Type]++
	}
	return facets(counts)
}

func productFacets(list []ingest.Stakeholder) []Facet {
	counts := map[string]int{}
	for _, s := range list {
		for _, p := range s.Products {
			counts[p]++
		}
	}
	return facets(counts)
}

func facets(counts map[string]int) []Facet {
	out := make([]Facet, 0, len(counts))
	for v, n := range counts {
		if v == "" {
			continue
		}
		out = append(out, Facet{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func metricRanges(ds *dataset.Dataset) map[metric.Kind]Bounds {
	ranges := map[metric.Kind]Bounds{}
	for _, s := range ds.Stakeholders {
		m, ok := ds.Metrics[s.Name]
		if !ok {
			continue
		}
		for _, kind := range metric.Kinds {
			v := metric.ParseMagnitude(m.Entry(kind).Display)
			b, seen := ranges[kind]
			if !seen {
				ranges[kind] = Bounds{Min: v, Max: v}
				continue
			}
			b.Min = math.Min(b.Min, v)
			b.Max = math.Max(b.Max, v)
			ranges[kind] = b
		}
	}
	return ranges
}

// networkStats sums reach over the selected partners, or over every partner
// when nothing is selected.
func networkStats(ds *dataset.Dataset, selected map[string]bool) NetworkStats {
	stats := NetworkStats{SelectedCount: len(selected)}
	for _, s := range ds.Stakeholders {
		if len(selected) > 0 && !selected[s.Name] {
			continue
		}
		n, ok := ds.Network[s.Name]
		if !ok {
			continue
		}
		stats.Dealers += metric.ParseCount(n.Dealers)
		stats.OEMs += metric.ParseCount(n.OEMs)
		stats.Upfitters += metric.ParseCount(n.Upfitters)
		stats.EquipmentMfg += metric.ParseCount(n.EquipmentMfg)
		stats.Buyers += metric.ParseCount(n.Buyers)
	}
	stats.TotalReach = stats.Dealers + stats.OEMs + stats.Upfitters + stats.EquipmentMfg + stats.Buyers
	return stats
}

// ColumnValues lists the distinct non-empty values a column shows, sorted,
// for the column filter dropdowns. "N/A" and "0" are left out.
func ColumnValues(ds *dataset.Dataset, column string) []string {
	seen := map[string]bool{}
	for _, s := range ds.Stakeholders {
		v := cellText(buildRow(ds, s), column)
		if v == "" || v == metric.NotAvailable || v == "0" {
			continue
		}
		seen[v] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
