package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/masha-osint/masha/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Column names follow the official Receita layout so anyone who has worked
// the raw extracts can query the tables directly.
const sqliteMigration = `
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertCompanies(ctx context.Context, rows []model.Company) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO companies
		 (cnpj_basico, razao_social, natureza_juridica, qualif_responsavel, capital_social, porte_empresa, ente_federativo)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert companies")
	}
	defer stmt.Close() //nolint:errcheck

	for _, c := range rows {
		if _, err := stmt.ExecContext(ctx,
			c.CNPJBase, c.LegalName, c.LegalNature, c.ResponsibleQualt, c.Capital, c.Size, c.FederativeEntity,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert company %s", c.CNPJBase)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit companies")
	}
	return int64(len(rows)), nil
}

func (s *SQLiteStore) InsertPartners(ctx context.Context, rows []model.Partner) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO partners
		 (cnpj_basico, identificador_socio, nome_socio_razao_social, cnpj_cpf_socio, qualificacao_socio,
		  data_entrada_sociedade, pais, cpf_representante, nome_representante, qualificacao_representante, faixa_etaria)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert partners")
	}
	defer stmt.Close() //nolint:errcheck

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx,
			p.CNPJBase, p.PartnerType, p.Name, p.Document, p.Qualification,
			p.EntryDate, p.Country, p.RepDocument, p.RepName, p.RepQualif, p.AgeBand,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert partner for %s", p.CNPJBase)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit partners")
	}
	return int64(len(rows)), nil
}

func (s *SQLiteStore) CompanyByCNPJ(ctx context.Context, cnpjBase string) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT cnpj_basico, razao_social, natureza_juridica, qualif_responsavel, capital_social, porte_empresa, ente_federativo
		 FROM companies WHERE cnpj_basico = ?`,
		cnpjBase,
	)

	var c model.Company
	err := row.Scan(&c.CNPJBase, &c.LegalName, &c.LegalNature, &c.ResponsibleQualt, &c.Capital, &c.Size, &c.FederativeEntity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get company %s", cnpjBase)
	}
	return &c, nil
}

func (s *SQLiteStore) PartnersByCNPJ(ctx context.Context, cnpjBase string) ([]model.Partner, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cnpj_basico, identificador_socio, nome_socio_razao_social, cnpj_cpf_socio, qualificacao_socio,
		        data_entrada_sociedade, pais, cpf_representante, nome_representante, qualificacao_representante, faixa_etaria
		 FROM partners WHERE cnpj_basico = ? ORDER BY nome_socio_razao_social`,
		cnpjBase,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list partners %s", cnpjBase)
	}
	defer rows.Close() //nolint:errcheck

	var partners []model.Partner
	for rows.Next() {
		var p model.Partner
		if err := rows.Scan(
			&p.CNPJBase, &p.PartnerType, &p.Name, &p.Document, &p.Qualification,
			&p.EntryDate, &p.Country, &p.RepDocument, &p.RepName, &p.RepQualif, &p.AgeBand,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan partner")
		}
		partners = append(partners, p)
	}
	return partners, eris.Wrap(rows.Err(), "sqlite: list partners iterate")
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&st.Companies); err != nil {
		return nil, eris.Wrap(err, "sqlite: count companies")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM partners`).Scan(&st.Partners); err != nil {
		return nil, eris.Wrap(err, "sqlite: count partners")
	}
	return &st, nil
}
