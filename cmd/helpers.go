package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Egidiu/cadastral-cli/internal/regions"
	"github.com/Egidiu/cadastral-cli/internal/store"
)

// openStore opens the configured queue backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.Store.Driver {
	case "sqlite", "":
		s, err = store.NewSQLite(cfg.Store.Path)
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("database URL is required for postgres (CADASTRAL_STORE_DATABASE_URL)")
		}
		s, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	return s, nil
}

// loadRegistry reads the county / UAT reference workbook.
func loadRegistry() (*regions.Registry, error) {
	reg, err := regions.LoadXLSX(cfg.Reference.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "load reference workbook %s", cfg.Reference.Path)
	}
	return reg, nil
}
