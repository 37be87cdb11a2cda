// Package store persists the local CNPJ registry built from the Receita
// Federal open-data extracts, behind either SQLite or PostgreSQL.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/model"
)

// Stats summarizes the loaded registry.
type Stats struct {
	Companies int64 `json:"companies"`
	Partners  int64 `json:"partners"`
}

// Store defines the persistence interface for the local registry.
type Store interface {
	// Bulk ingestion
	InsertCompanies(ctx context.Context, rows []model.Company) (int64, error)
	InsertPartners(ctx context.Context, rows []model.Partner) (int64, error)

	// Lookups. CompanyByCNPJ returns (nil, nil) when the base is absent.
	CompanyByCNPJ(ctx context.Context, cnpjBase string) (*model.Company, error)
	PartnersByCNPJ(ctx context.Context, cnpjBase string) ([]model.Partner, error)

	Stats(ctx context.Context) (*Stats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.RegistryConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
}

// CNPJBase extracts the 8-digit base from a CNPJ in any formatting. The
// Receita extracts key everything on this base, not the full 14 digits.
func CNPJBase(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 8 {
				break
			}
		}
	}
	return b.String()
}
