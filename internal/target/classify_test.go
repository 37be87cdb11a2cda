package target

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masha-osint/masha/internal/model"
)

func TestClassify_Cascade(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantType   model.TargetType
		wantNormal string
	}{
		{"email", "eujonatasfreire@gmail.com", model.TargetEmail, "eujonatasfreire@gmail.com"},
		{"email uppercase", "Foo.Bar@Example.COM", model.TargetEmail, "foo.bar@example.com"},
		{"cpf formatted", "  123.456.789-00  ", model.TargetCPF, "123.456.789-00"},
		{"cpf bare digits", "12345678900", model.TargetCPF, "123.456.789-00"},
		{"cnpj", "12.345.678/0001-90", model.TargetCNPJ, "12.345.678/0001-90"},
		{"cnpj bare digits", "12345678000190", model.TargetCNPJ, "12.345.678/0001-90"},
		{"intl phone plus", "+1 202 555 0199", model.TargetPhoneIntl, "+12025550199"},
		{"intl phone 00", "0044 20 7946 0958", model.TargetPhoneIntl, "+442079460958"},
		// Only "+" shields a number from the document checks: a bare
		// 11-digit string keeps reading as CPF even with a 00 prefix.
		{"00 prefix with 11 digits is cpf", "00123456789", model.TargetCPF, "001.234.567-89"},
		{"00 prefix with 14 digits is cnpj", "00123456789012", model.TargetCNPJ, "00.123.456/7890-12"},
		// 11 bare digits always read as CPF, even when phone-shaped: the
		// document check is format-only and takes priority.
		{"br mobile digits collide with cpf", "(92) 99999-9999", model.TargetCPF, "929.999.999-99"},
		{"br landline with ddd", "1123456789", model.TargetPhoneBR, "(11) 2345-6789"},
		{"br mobile no ddd", "999998888", model.TargetPhoneBR, "99999-8888"},
		{"br landline no ddd", "23456789", model.TargetPhoneBR, "2345-6789"},
		{"url", "https://Site.com.BR/Teste", model.TargetURL, "https://site.com.br/teste"},
		{"domain plain", "exemplo.com", model.TargetDomain, "exemplo.com"},
		{"domain www", "www.Exemplo.com", model.TargetDomain, "www.exemplo.com"},
		{"url http trailing slash", "http://exemplo.com/", model.TargetURL, "http://exemplo.com/"},
		{"name", "João da Silva", model.TargetName, "João da Silva"},
		{"name collapses spaces", "  João   da   Silva ", model.TargetName, "João da Silva"},
		{"username", "eujonatasfreire", model.TargetUsername, "eujonatasfreire"},
		{"username with separators", "john_doe-2025", model.TargetUsername, "john_doe-2025"},
		{"free text with letters reads as name", "coisa aleatória 123", model.TargetName, "coisa aleatória 123"},
		{"empty", "", model.TargetGeneric, ""},
		{"whitespace only", "   ", model.TargetGeneric, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantNormal, got.Normalized)
			assert.Equal(t, tt.raw, got.Raw)
		})
	}
}

func TestClassify_ElevenDigitIsCPF(t *testing.T) {
	// Any digit-normalizable input of exactly 11 digits without an
	// international prefix classifies as CPF.
	for _, raw := range []string{"12345678900", "123 456 789 00", "123-456-789/00"} {
		got := Classify(raw)
		assert.Equal(t, model.TargetCPF, got.Type, raw)
	}
}

func TestClassify_FormattingIdempotent(t *testing.T) {
	// Reclassifying the normalized form yields the same normalized form.
	for _, raw := range []string{"12345678900", "12345678000190", "+55 92 99999 9999"} {
		first := Classify(raw)
		second := Classify(first.Normalized)
		assert.Equal(t, first.Type, second.Type, raw)
		assert.Equal(t, first.Normalized, second.Normalized, raw)
	}
}

func TestClassify_DigitStringsOutsidePhoneRange(t *testing.T) {
	// 12 and 13 digit strings match neither document nor phone lengths and
	// fall through the cascade using the original string.
	got := Classify("123456789012")
	assert.Equal(t, model.TargetUsername, got.Type)
	assert.Equal(t, "123456789012", got.Normalized)

	got = Classify("1234567")
	assert.Equal(t, model.TargetUsername, got.Type)
}
