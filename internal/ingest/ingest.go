// Package ingest downloads Receita Federal CNPJ open-data archives and loads
// the Empresas and Socios extracts into the local registry store.
package ingest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/fetcher"
	"github.com/masha-osint/masha/internal/model"
	"github.com/masha-osint/masha/internal/store"
)

const (
	companyFieldCount = 7
	partnerFieldCount = 11
	sampleBytes       = 64 * 1024
)

// Ingestor drives the download-and-load flow for the registry.
type Ingestor struct {
	fetch       *fetcher.HTTPFetcher
	store       store.Store
	baseURL     string
	downloadDir string
	chunkSize   int
}

// New creates an Ingestor writing into st.
func New(f *fetcher.HTTPFetcher, st store.Store, cfg config.IngestConfig) *Ingestor {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 5000
	}
	return &Ingestor{
		fetch:       f,
		store:       st,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		downloadDir: cfg.DownloadDir,
		chunkSize:   chunkSize,
	}
}

// ListFiles scrapes the open-data index page and returns the Empresas and
// Socios archive names, sorted.
func (in *Ingestor) ListFiles(ctx context.Context) ([]string, error) {
	resp, err := in.fetch.Get(ctx, in.baseURL+"/")
	if err != nil {
		return nil, eris.Wrap(err, "ingest: fetch index")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ingest: index returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, eris.Wrap(err, "ingest: parse index")
	}

	var files []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.HasSuffix(strings.ToLower(href), ".zip") {
			return
		}
		if strings.Contains(href, "Empresas") || strings.Contains(href, "Socios") {
			files = append(files, href)
		}
	})
	sort.Strings(files)

	zap.S().Infow("ingest: listed archives", "count", len(files))
	return files, nil
}

// Download streams one archive into the download directory and returns its
// local path.
func (in *Ingestor) Download(ctx context.Context, name string) (string, error) {
	if err := os.MkdirAll(in.downloadDir, 0o755); err != nil {
		return "", eris.Wrap(err, "ingest: create download dir")
	}

	dest := filepath.Join(in.downloadDir, filepath.Base(name))
	url := in.baseURL + "/" + name

	zap.S().Infow("ingest: downloading archive", "url", url, "dest", dest)
	n, err := in.fetch.Download(ctx, url, dest)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: download %s", name)
	}
	zap.S().Infow("ingest: download complete", "dest", dest, "bytes", n)
	return dest, nil
}

// LoadReport summarizes one LoadZip run.
type LoadReport struct {
	Companies int64    `json:"companies"`
	Partners  int64    `json:"partners"`
	Skipped   []string `json:"skipped,omitempty"`
}

// LoadZip loads every Empresas/Socios member of one archive into the store.
// Members that are neither are skipped and reported, not fatal.
func (in *Ingestor) LoadZip(ctx context.Context, zipPath string) (*LoadReport, error) {
	members, err := fetcher.ZIPMembers(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: inspect %s", zipPath)
	}

	csvLike := fetcher.CSVLikeMembers(members)
	if len(csvLike) == 0 {
		return nil, eris.Errorf("ingest: no csv/txt members in %s", zipPath)
	}

	report := &LoadReport{}
	for _, member := range csvLike {
		kind := memberKind(member)
		if kind == "" {
			zap.S().Warnw("ingest: unrecognized member, skipping", "member", member)
			report.Skipped = append(report.Skipped, member)
			continue
		}

		if err := in.loadMember(ctx, zipPath, member, kind, report); err != nil {
			return report, eris.Wrapf(err, "ingest: load member %s", member)
		}
	}
	return report, nil
}

func (in *Ingestor) loadMember(ctx context.Context, zipPath, member, kind string, report *LoadReport) error {
	sep, err := in.sampleSeparator(zipPath, member)
	if err != nil {
		return err
	}

	rc, err := fetcher.OpenZIPMember(zipPath, member)
	if err != nil {
		return err
	}
	defer rc.Close() //nolint:errcheck

	zap.S().Infow("ingest: loading member", "member", member, "kind", kind, "separator", string(sep))

	rows, errs := fetcher.StreamCSV(ctx, rc, fetcher.CSVOptions{
		Delimiter:  sep,
		LazyQuotes: true,
		TrimSpace:  true,
		Latin1:     true,
	})

	var companies []model.Company
	var partners []model.Partner
	for row := range rows {
		switch kind {
		case "empresas":
			companies = append(companies, toCompany(padRow(row, companyFieldCount)))
			if len(companies) >= in.chunkSize {
				if err := in.flushCompanies(ctx, &companies, report); err != nil {
					return err
				}
			}
		case "socios":
			partners = append(partners, toPartner(padRow(row, partnerFieldCount)))
			if len(partners) >= in.chunkSize {
				if err := in.flushPartners(ctx, &partners, report); err != nil {
					return err
				}
			}
		}
	}
	if err := <-errs; err != nil {
		return err
	}

	if err := in.flushCompanies(ctx, &companies, report); err != nil {
		return err
	}
	return in.flushPartners(ctx, &partners, report)
}

// sampleSeparator reads the head of a member to detect the field separator.
// The separators are ASCII, so no latin-1 decoding is needed here.
func (in *Ingestor) sampleSeparator(zipPath, member string) (rune, error) {
	rc, err := fetcher.OpenZIPMember(zipPath, member)
	if err != nil {
		return 0, err
	}
	defer rc.Close() //nolint:errcheck

	sample, err := io.ReadAll(io.LimitReader(rc, sampleBytes))
	if err != nil {
		return 0, eris.Wrapf(err, "ingest: sample %s", member)
	}
	return fetcher.DetectSeparator(string(sample)), nil
}

func (in *Ingestor) flushCompanies(ctx context.Context, batch *[]model.Company, report *LoadReport) error {
	if len(*batch) == 0 {
		return nil
	}
	n, err := in.store.InsertCompanies(ctx, *batch)
	if err != nil {
		return err
	}
	report.Companies += n
	zap.S().Debugw("ingest: flushed companies", "rows", n, "total", report.Companies)
	*batch = (*batch)[:0]
	return nil
}

func (in *Ingestor) flushPartners(ctx context.Context, batch *[]model.Partner, report *LoadReport) error {
	if len(*batch) == 0 {
		return nil
	}
	n, err := in.store.InsertPartners(ctx, *batch)
	if err != nil {
		return err
	}
	report.Partners += n
	zap.S().Debugw("ingest: flushed partners", "rows", n, "total", report.Partners)
	*batch = (*batch)[:0]
	return nil
}

// memberKind classifies a member by name: "empresas", "socios" or "".
func memberKind(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "empre"):
		return "empresas"
	case strings.Contains(lower, "socio"):
		return "socios"
	}
	return ""
}

// padRow fixes the field count: extra columns are dropped, missing ones come
// back empty. The extracts occasionally drift from the published layout.
func padRow(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func toCompany(f []string) model.Company {
	return model.Company{
		CNPJBase:         f[0],
		LegalName:        f[1],
		LegalNature:      f[2],
		ResponsibleQualt: f[3],
		Capital:          f[4],
		Size:             f[5],
		FederativeEntity: f[6],
	}
}

func toPartner(f []string) model.Partner {
	return model.Partner{
		CNPJBase:      f[0],
		PartnerType:   f[1],
		Name:          f[2],
		Document:      f[3],
		Qualification: f[4],
		EntryDate:     f[5],
		Country:       f[6],
		RepDocument:   f[7],
		RepName:       f[8],
		RepQualif:     f[9],
		AgeBand:       f[10],
	}
}
