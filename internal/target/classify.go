// Package target classifies a raw investigation target string into a typed,
// normalized descriptor.
package target

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/masha-osint/masha/internal/model"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonDigitRe = regexp.MustCompile(`\D`)
	letterRe   = regexp.MustCompile(`[A-Za-zÀ-ÖØ-öø-ÿ]`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	schemeRe   = regexp.MustCompile(`^https?://`)
)

// Classify detects and normalizes the target type. It never fails: anything
// unrecognized comes back as a generic target with trimmed input. The cascade
// is evaluated in priority order, first match wins:
// email, CPF/CNPJ, international phone, Brazilian phone, URL, domain,
// personal name, username, generic.
func Classify(raw string) model.TargetDescriptor {
	s := strings.TrimSpace(raw)

	desc := model.TargetDescriptor{
		Raw:        raw,
		Type:       model.TargetGeneric,
		Normalized: s,
	}
	if s == "" {
		return desc
	}

	if emailRe.MatchString(s) {
		desc.Type = model.TargetEmail
		desc.Normalized = strings.ToLower(s)
		return desc
	}

	digits := onlyDigits(s)
	plusPrefix := strings.HasPrefix(s, "+")
	intlPrefix := plusPrefix || strings.HasPrefix(s, "00")

	// CPF and CNPJ are format-only checks, no checksum validation. A "+"
	// prefix disambiguates in favor of a phone: "+1 202 555 0199" also
	// strips to 11 digits. A "00" dialing prefix does not, so an 11-digit
	// "00..." string still reads as a CPF.
	if !plusPrefix {
		switch len(digits) {
		case 11:
			desc.Type = model.TargetCPF
			desc.Normalized = formatCPF(digits)
			return desc
		case 14:
			desc.Type = model.TargetCNPJ
			desc.Normalized = formatCNPJ(digits)
			return desc
		}
	}

	if intlPrefix && len(digits) >= 7 {
		desc.Type = model.TargetPhoneIntl
		desc.Normalized = "+" + strings.TrimPrefix(digits, "00")
		return desc
	}

	if len(digits) >= 8 && len(digits) <= 11 {
		desc.Type = model.TargetPhoneBR
		desc.Normalized = formatPhoneBR(digits)
		return desc
	}

	lower := strings.ToLower(s)

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		desc.Type = model.TargetURL
		desc.Normalized = lower
		return desc
	}

	if !strings.Contains(s, " ") && strings.Contains(s, ".") {
		desc.Type = model.TargetDomain
		desc.Normalized = strings.Trim(schemeRe.ReplaceAllString(lower, ""), "/")
		return desc
	}

	if strings.Contains(s, " ") && letterRe.MatchString(s) {
		desc.Type = model.TargetName
		desc.Normalized = strings.Join(strings.Fields(s), " ")
		return desc
	}

	if usernameRe.MatchString(s) {
		desc.Type = model.TargetUsername
		desc.Normalized = s
		return desc
	}

	return desc
}

func onlyDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// formatCPF renders 11 digits as NNN.NNN.NNN-NN.
func formatCPF(d string) string {
	return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
}

// formatCNPJ renders 14 digits as NN.NNN.NNN/NNNN-NN.
func formatCNPJ(d string) string {
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}

// formatPhoneBR renders 8-11 digits as "(DD) XXXXX-XXXX" when an area code
// can be split off (10 or 11 digits) or "XXXXX-XXXX" otherwise.
func formatPhoneBR(d string) string {
	if len(d) < 8 {
		return d
	}

	var ddd, rest string
	if len(d) == 10 || len(d) == 11 {
		ddd, rest = d[0:2], d[2:]
	} else {
		rest = d
	}

	var first, second string
	switch len(rest) {
	case 9:
		first, second = rest[0:5], rest[5:]
	case 8:
		first, second = rest[0:4], rest[4:]
	default:
		return d
	}

	if ddd != "" {
		return fmt.Sprintf("(%s) %s-%s", ddd, first, second)
	}
	return first + "-" + second
}
