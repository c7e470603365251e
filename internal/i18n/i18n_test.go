// file: internal/i18n/i18n_test.go
// version: 1.0.0
// guid: 5f77209c-13c8-437f-a6d3-d6fdd39276aa

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jdfalk/library-catalog/internal/library"
)

func TestTranslator_Match(t *testing.T) {
	tr, err := NewTranslator("")
	require.NoError(t, err)

	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.BrazilianPortuguese},
		{"en", language.English},
		{"en-US,en;q=0.9", language.English},
		{"pt-BR", language.BrazilianPortuguese},
		{"fr-FR", language.BrazilianPortuguese},
		{"not a header;;", language.BrazilianPortuguese},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.header))
		})
	}
}

func TestTranslator_EnglishFallback(t *testing.T) {
	tr, err := NewTranslator("en")
	require.NoError(t, err)

	assert.Equal(t, language.English, tr.Fallback())
	assert.Equal(t, language.English, tr.Match("de"))
}

func TestNewTranslator_RejectsUnsupportedLocale(t *testing.T) {
	_, err := NewTranslator("ja")
	assert.Error(t, err)

	_, err = NewTranslator("!!")
	assert.Error(t, err)
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "ISBN já cadastrado.", Sprintf(language.BrazilianPortuguese, library.MsgDuplicateCatalogNumber))
	assert.Equal(t, "ISBN already registered.", Sprintf(language.English, library.MsgDuplicateCatalogNumber))

	assert.Equal(t, "title não deve estar vazio", Sprintf(language.BrazilianPortuguese, MsgFieldRequired, "title"))
	assert.Equal(t, "title must not be empty", Sprintf(language.English, MsgFieldRequired, "title"))

	assert.Equal(t, "livro não encontrado para o ISBN 978", Sprintf(language.BrazilianPortuguese, library.MsgBookNotFoundForISBN, "978"))
}

func TestSprintf_UnknownKeyFormatsItself(t *testing.T) {
	assert.Equal(t, "plain 7", Sprintf(language.English, "plain %d", 7))
}

func TestEveryTranslationHasPortuguese(t *testing.T) {
	for key, texts := range translations {
		assert.NotEmpty(t, texts[localePtBR], key)
	}
}
