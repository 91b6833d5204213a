package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/Egidiu/cadastral-cli/internal/config"
	"github.com/Egidiu/cadastral-cli/internal/model"
)

func TestOpenStoreSQLite(t *testing.T) {
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "queue.db"),
		},
	}

	ctx := context.Background()
	s, err := openStore(ctx)
	require.NoError(t, err)
	defer s.Close()

	added, err := s.Add(ctx, model.LookupRequest{
		County:          "Timis",
		CountyID:        36,
		UAT:             "Giroc",
		UATID:           19560,
		CadastralNumber: 12476,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "oracle"}}

	_, err := openStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestOpenStorePostgresRequiresURL(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "postgres"}}

	_, err := openStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL")
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localitati_IDs.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, name := range []string{"Judet", "Judet_ID", "Comuna", "Comuna_ID"} {
		header.AddCell().SetString(name)
	}
	row := sheet.AddRow()
	row.AddCell().SetString("Timis")
	row.AddCell().SetInt64(36)
	row.AddCell().SetString("Giroc")
	row.AddCell().SetInt64(19560)
	require.NoError(t, f.Save(path))

	cfg = &config.Config{Reference: config.ReferenceConfig{Path: path}}

	reg, err := loadRegistry()
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	entry, err := reg.Resolve("timis", "GIROC")
	require.NoError(t, err)
	assert.Equal(t, 19560, entry.UATID)
}

func TestLoadRegistryMissingFile(t *testing.T) {
	cfg = &config.Config{Reference: config.ReferenceConfig{Path: filepath.Join(t.TempDir(), "nope.xlsx")}}

	_, err := loadRegistry()
	assert.Error(t, err)
}
