package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "Quoted commas preserved",
			line: `Acme, "OEM, Tier 1", "CPQ, Marketplace", Active,,,,`,
			want: []string{"Acme", "OEM, Tier 1", "CPQ, Marketplace", "Active", "", "", "", ""},
		},
		{
			name: "Plain",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "Doubled quotes are not an escape",
			line: `"say ""hi""",x`,
			want: []string{"say hi", "x"},
		},
		{
			name: "Single field",
			line: "solo",
			want: []string{"solo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitFields(tt.line)); diff != "" {
				t.Errorf("SplitFields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecords_SkipsHeaderBlanksAndNameless(t *testing.T) {
	text := "Name,Type,Products,Status,Contract,By,Comments,Edited\r\n" +
		"\n" +
		"Acme,OEM,CPQ,Active,,,,\r\n" +
		"   \n" +
		",Dealer,CRM,Active,,,,\n" +
		"Beta,Dealer,CRM,Pending,,,,\n"

	records := ParseRecords(text)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme", records[0][0])
	assert.Equal(t, "Active", records[0][3])
	assert.Equal(t, "Beta", records[1][0])
}

func TestParseRecords_Empty(t *testing.T) {
	assert.Empty(t, ParseRecords(""))
	assert.Empty(t, ParseRecords("Name,Type\n"))
}

func TestParseStakeholders(t *testing.T) {
	text := "Name,Type,Products,Status,Contract,By,Comments,Edited\n" +
		`Acme, "OEM, Tier 1", "CPQ, Marketplace, ", Active,2024-01-02,Sam,"Big, important",2024-05-01` + "\n" +
		"Short,Dealer\n"

	got := ParseStakeholders(text)
	want := []Stakeholder{
		{
			Name:             "Acme",
			Type:             "OEM, Tier 1",
			Products:         []string{"CPQ", "Marketplace"},
			Status:           "Active",
			ContractExecuted: "2024-01-02",
			BroughtOnBy:      "Sam",
			Comments:         "Big, important",
			LastEdited:       "2024-05-01",
		},
		{Name: "Short", Type: "Dealer", Products: []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStakeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupe(t *testing.T) {
	list := []Stakeholder{
		{Name: "Endera", Type: "OEM", Products: []string{"CPQ"}},
		{Name: "Acme", Type: "Dealer"},
		{Name: "Endera", Type: "End-User", Products: []string{"Order Management"}},
		{Name: "Acme", Type: "End-User", Products: []string{"CRM"}},
	}

	got := Dedupe(list, DefaultDedupeRule)
	require.Len(t, got, 2)
	assert.Equal(t, "Endera", got[0].Name, "first-seen order is kept")
	assert.Equal(t, "End-User", got[0].Type, "preferred duplicate replaces the first record")
	assert.Equal(t, "Dealer", got[1].Type, "non-preferred duplicate is dropped")

	plain := Dedupe(list, DedupeRule{})
	assert.Equal(t, "OEM", plain[0].Type, "an empty rule always keeps the first record")
}
