package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/masha-osint/masha/internal/model"
)

var (
	wsRe    = regexp.MustCompile(`\s+`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	intlPhoneRe = regexp.MustCompile(`(?:\+|00)[0-9][0-9 \-()]{7,20}`)
	brPhoneRe   = regexp.MustCompile(`(?:\(?\d{2}\)?\s?)?(?:9\d{4}|[2-9]\d{3})-?\d{4}`)

	cpfRe  = regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`)
	cnpjRe = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	rgRe   = regexp.MustCompile(`\d{1,2}\.\d{3}\.\d{3}-[\dX]`)
	ssnRe  = regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)
	vatRe  = regexp.MustCompile(`[A-Z]{2}\d{8,12}`)
)

// CleanText collapses all runs of whitespace to single spaces.
func CleanText(t string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(t, " "))
}

// ExtractEmails returns the deduplicated, sorted email addresses in t,
// case preserved.
func ExtractEmails(t string) []string {
	return uniqueSorted(emailRe.FindAllString(t, -1))
}

// ExtractPhones returns phone-shaped substrings of t. The international and
// Brazilian patterns are applied independently and the results are not
// canonicalized, so one physical number formatted two ways appears twice.
// That is deliberate raw-text capture.
func ExtractPhones(t string) []string {
	var phones []string
	for _, p := range intlPhoneRe.FindAllString(t, -1) {
		phones = append(phones, strings.TrimSpace(p))
	}
	for _, p := range brPhoneRe.FindAllString(t, -1) {
		phones = append(phones, strings.TrimSpace(p))
	}
	return uniqueSorted(phones)
}

// ExtractDocuments returns labeled document numbers found in t: CPF, CNPJ,
// RG, US SSN and VAT-shaped identifiers, merged into one sorted set.
func ExtractDocuments(t string) []string {
	var docs []string
	for _, m := range cpfRe.FindAllString(t, -1) {
		docs = append(docs, "CPF: "+m)
	}
	for _, m := range cnpjRe.FindAllString(t, -1) {
		docs = append(docs, "CNPJ: "+m)
	}
	for _, m := range rgRe.FindAllString(t, -1) {
		docs = append(docs, "RG: "+m)
	}
	for _, m := range ssnRe.FindAllString(t, -1) {
		docs = append(docs, "SSN(EUA): "+m)
	}
	for _, m := range vatRe.FindAllString(t, -1) {
		docs = append(docs, "VAT: "+m)
	}
	return uniqueSorted(docs)
}

// fillFields runs the single field-extraction pass over the final text blob.
// Every content type goes through here so the PDF/CSV/HTML paths cannot
// drift apart.
func fillFields(rec *model.CrawlRecord, text string) {
	rec.RawText = text
	rec.Emails = ExtractEmails(text)
	rec.Phones = ExtractPhones(text)
	rec.Documents = ExtractDocuments(text)
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
