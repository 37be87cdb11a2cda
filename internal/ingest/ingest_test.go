package ingest

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/fetcher"
	"github.com/masha-osint/masha/internal/store"
)

func newTestIngestor(t *testing.T, cfg config.IngestConfig) (*Ingestor, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cnpj.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	return New(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}), st, cfg), st
}

func writeZip(t *testing.T, members map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestLoadZip_Empresas(t *testing.T) {
	in, st := newTestIngestor(t, config.IngestConfig{ChunkSize: 1})

	content := latin1(t, `"12345678"|"AÇAÍ DO NORTE LTDA"|"2062"|"49"|"100000,00"|"03"|""`+"\n"+
		`"87654321"|"BETA SERVIÇOS SA"|"2054"|"49"|"5000000,00"|"05"|""`+"\n")
	path := writeZip(t, map[string][]byte{"K3241.K03200Y0.EMPRECSV.csv": content})

	report, err := in.LoadZip(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Companies)
	assert.Zero(t, report.Partners)

	c, err := st.CompanyByCNPJ(context.Background(), "12345678")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "AÇAÍ DO NORTE LTDA", c.LegalName)
}

func TestLoadZip_Socios(t *testing.T) {
	in, st := newTestIngestor(t, config.IngestConfig{})

	content := latin1(t, `"12345678"|"2"|"JOÃO PEREIRA"|"***123456**"|"49"|"20190101"|""|""|""|""|"4"`+"\n")
	path := writeZip(t, map[string][]byte{"SOCIOCSV.txt": content})

	report, err := in.LoadZip(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Partners)

	partners, err := st.PartnersByCNPJ(context.Background(), "12345678")
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, "JOÃO PEREIRA", partners[0].Name)
	assert.Equal(t, "4", partners[0].AgeBand)
}

func TestLoadZip_ShortRowsArePadded(t *testing.T) {
	in, st := newTestIngestor(t, config.IngestConfig{})

	content := latin1(t, `"12345678"|"ACME LTDA"`+"\n")
	path := writeZip(t, map[string][]byte{"EMPRECSV.csv": content})

	report, err := in.LoadZip(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Companies)

	c, err := st.CompanyByCNPJ(context.Background(), "12345678")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "ACME LTDA", c.LegalName)
	assert.Empty(t, c.Capital)
}

func TestLoadZip_UnknownMemberSkipped(t *testing.T) {
	in, _ := newTestIngestor(t, config.IngestConfig{})

	path := writeZip(t, map[string][]byte{
		"leiame.txt":   []byte("documentação do layout"),
		"EMPRECSV.csv": latin1(t, `"12345678"|"ACME"|""|""|""|""|""`+"\n"),
	})

	report, err := in.LoadZip(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"leiame.txt"}, report.Skipped)
	assert.Equal(t, int64(1), report.Companies)
}

func TestLoadZip_NoCSVMembers(t *testing.T) {
	in, _ := newTestIngestor(t, config.IngestConfig{})

	path := writeZip(t, map[string][]byte{"readme.md": []byte("x")})

	_, err := in.LoadZip(context.Background(), path)
	require.Error(t, err)
}

func TestListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		//nolint:errcheck
		w.Write([]byte(`<html><body><table>
			<tr><td><a href="Empresas0.zip">Empresas0.zip</a></td></tr>
			<tr><td><a href="Socios0.zip">Socios0.zip</a></td></tr>
			<tr><td><a href="Cnaes.zip">Cnaes.zip</a></td></tr>
			<tr><td><a href="LAYOUT.pdf">LAYOUT.pdf</a></td></tr>
		</table></body></html>`))
	}))
	defer srv.Close()

	in, _ := newTestIngestor(t, config.IngestConfig{BaseURL: srv.URL})

	files, err := in.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Empresas0.zip", "Socios0.zip"}, files)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Empresas0.zip", r.URL.Path)
		w.Write([]byte("zip bytes")) //nolint:errcheck
	}))
	defer srv.Close()

	dir := t.TempDir()
	in, _ := newTestIngestor(t, config.IngestConfig{BaseURL: srv.URL, DownloadDir: dir})

	path, err := in.Download(context.Background(), "Empresas0.zip")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(data))
}

func TestMemberKind(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"K3241.K03200Y0.D50111.EMPRECSV", "empresas"},
		{"Empresas3.csv", "empresas"},
		{"SOCIOCSV.txt", "socios"},
		{"Socios9.csv", "socios"},
		{"Cnaes.csv", ""},
		{"leiame.txt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, memberKind(tt.name))
		})
	}
}

func TestPadRow(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, padRow([]string{"a", "b"}, 3))
	assert.Equal(t, []string{"a", "b"}, padRow([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a", "b"}, padRow([]string{"a", "b"}, 2))
}
