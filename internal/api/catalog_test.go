package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `[
  {"language": "Português", "translations": [
    {"short_name": "NVI", "full_name": "Nova Versão Internacional", "updated": 1},
    {"short_name": "ARA", "full_name": "Almeida Revista e Atualizada", "updated": 2}
  ]},
  {"language": "English", "translations": [
    {"short_name": "KJV", "full_name": "King James Version", "updated": 3}
  ]}
]`

func TestTranslations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalog))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	all, err := c.Translations(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ARA", all[0].ShortName)
	assert.Equal(t, "Português", all[0].Language)

	pt, err := c.Translations(context.Background(), "portu")
	require.NoError(t, err)
	assert.Len(t, pt, 2)

	none, err := c.Translations(context.Background(), "klingon")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTranslationsStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(srv.URL).Translations(context.Background(), "")
	assert.ErrorContains(t, err, "status 404")
}
