package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"investor_dashboard/pkg/core/dataset"
)

func TestFixtureNames(t *testing.T) {
	names := fixtureNames(dataset.Names{Stakeholders: "s.csv", Ecosystem: "e.json", Documents: []string{"a.json"}})
	assert.Equal(t, []string{"s.csv", "e.json", "a.json"}, names)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validate("s.csv", []byte("Name,Type\nAcme,OEM\n")))
	assert.Error(t, validate("s.csv", []byte("Name,Type\n")))
	assert.NoError(t, validate("m.json", []byte(`{"Acme": {revenue: {display: "$1M"}}}`)))
}

func TestSeed_DryRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s.csv"), []byte("Name\nAcme\n"), 0644))

	err := seed(context.Background(), dir, []string{"s.csv"}, true, zap.NewNop())
	assert.NoError(t, err)

	err = seed(context.Background(), dir, []string{"missing.json"}, true, zap.NewNop())
	assert.Error(t, err)
}
