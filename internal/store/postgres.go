package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/masha-osint/masha/internal/db"
	"github.com/masha-osint/masha/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

var companyColumns = []string{
	"cnpj_basico", "razao_social", "natureza_juridica", "qualif_responsavel",
	"capital_social", "porte_empresa", "ente_federativo",
}

var partnerColumns = []string{
	"cnpj_basico", "identificador_socio", "nome_socio_razao_social", "cnpj_cpf_socio",
	"qualificacao_socio", "data_entrada_sociedade", "pais", "cpf_representante",
	"nome_representante", "qualificacao_representante", "faixa_etaria",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	cnpj_basico         TEXT PRIMARY KEY,
	razao_social        TEXT,
	natureza_juridica   TEXT,
	qualif_responsavel  TEXT,
	capital_social      TEXT,
	porte_empresa       TEXT,
	ente_federativo     TEXT
);

CREATE TABLE IF NOT EXISTS partners (
	cnpj_basico                TEXT NOT NULL,
	identificador_socio        TEXT,
	nome_socio_razao_social    TEXT,
	cnpj_cpf_socio             TEXT,
	qualificacao_socio         TEXT,
	data_entrada_sociedade     TEXT,
	pais                       TEXT,
	cpf_representante          TEXT,
	nome_representante         TEXT,
	qualificacao_representante TEXT,
	faixa_etaria               TEXT
);

CREATE INDEX IF NOT EXISTS idx_partners_cnpj ON partners(cnpj_basico);
CREATE INDEX IF NOT EXISTS idx_companies_razao ON companies(razao_social);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) InsertCompanies(ctx context.Context, rows []model.Company) (int64, error) {
	values := make([][]any, len(rows))
	for i, c := range rows {
		values[i] = []any{c.CNPJBase, c.LegalName, c.LegalNature, c.ResponsibleQualt, c.Capital, c.Size, c.FederativeEntity}
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "companies",
		Columns:      companyColumns,
		ConflictKeys: []string{"cnpj_basico"},
	}, values)
}

func (s *PostgresStore) InsertPartners(ctx context.Context, rows []model.Partner) (int64, error) {
	values := make([][]any, len(rows))
	for i, p := range rows {
		values[i] = []any{
			p.CNPJBase, p.PartnerType, p.Name, p.Document, p.Qualification,
			p.EntryDate, p.Country, p.RepDocument, p.RepName, p.RepQualif, p.AgeBand,
		}
	}
	return db.CopyFrom(ctx, s.pool, "partners", partnerColumns, values)
}

func (s *PostgresStore) CompanyByCNPJ(ctx context.Context, cnpjBase string) (*model.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT cnpj_basico, razao_social, natureza_juridica, qualif_responsavel, capital_social, porte_empresa, ente_federativo
		 FROM companies WHERE cnpj_basico = $1`,
		cnpjBase,
	)

	var c model.Company
	err := row.Scan(&c.CNPJBase, &c.LegalName, &c.LegalNature, &c.ResponsibleQualt, &c.Capital, &c.Size, &c.FederativeEntity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", cnpjBase)
	}
	return &c, nil
}

func (s *PostgresStore) PartnersByCNPJ(ctx context.Context, cnpjBase string) ([]model.Partner, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cnpj_basico, identificador_socio, nome_socio_razao_social, cnpj_cpf_socio, qualificacao_socio,
		        data_entrada_sociedade, pais, cpf_representante, nome_representante, qualificacao_representante, faixa_etaria
		 FROM partners WHERE cnpj_basico = $1 ORDER BY nome_socio_razao_social`,
		cnpjBase,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list partners %s", cnpjBase)
	}
	defer rows.Close()

	var partners []model.Partner
	for rows.Next() {
		var p model.Partner
		if err := rows.Scan(
			&p.CNPJBase, &p.PartnerType, &p.Name, &p.Document, &p.Qualification,
			&p.EntryDate, &p.Country, &p.RepDocument, &p.RepName, &p.RepQualif, &p.AgeBand,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan partner")
		}
		partners = append(partners, p)
	}
	return partners, eris.Wrap(rows.Err(), "postgres: list partners iterate")
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&st.Companies); err != nil {
		return nil, eris.Wrap(err, "postgres: count companies")
	}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM partners`).Scan(&st.Partners); err != nil {
		return nil, eris.Wrap(err, "postgres: count partners")
	}
	return &st, nil
}
