package inspire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettviren/recibi/internal/apis"
)

func TestFormURL(t *testing.T) {
	tests := []struct {
		name, typ, value, params, want string
	}{
		{"search", "literature", "", "q=x", BaseURL + "/literature?q=x"},
		{"record", "literature", "1234", "", BaseURL + "/literature/1234"},
		{"arxiv id", "arxiv", "2404.01687", "format=bibtex", BaseURL + "/arxiv/2404.01687?format=bibtex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormURL(BaseURL, tt.typ, tt.value, tt.params))
		})
	}
	assert.Equal(t, "http://h/api/literature", FormURL("http://h/api/", "literature", "", ""))
}

func TestRequest_Normalize(t *testing.T) {
	r := Request{Size: 5000}
	require.NoError(t, r.Normalize())
	assert.Equal(t, Request{
		Type: DefaultType, Join: DefaultJoin, Sort: DefaultSort,
		Size: MaxSize, Format: "bibtex",
	}, r)

	bad := Request{Format: "xml"}
	assert.ErrorContains(t, bad.Normalize(), "unsupported format")
}

func TestRequest_Params(t *testing.T) {
	r := Request{Queries: []string{"arxiv:2404.01687", "arxiv:2402.05383"}}
	require.NoError(t, r.Normalize())
	assert.Equal(t,
		"q=arxiv:2404.01687%20or%20arxiv:2402.05383&sort=mostrecent&size=10&format=bibtex",
		r.Params())

	r.Join = "and"
	r.Queries = []string{"a", "b"}
	assert.Contains(t, r.Params(), "q=a%20and%20b&")
}

func TestFetch(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte("@article{Doe:2020abc,\n  title = {T},\n}\n"))
	}))
	defer srv.Close()

	c := apis.NewClient(apis.WithRateLimit(0))
	body, err := Fetch(context.Background(), c, srv.URL+"/api", Request{Queries: []string{"arxiv:1"}})
	require.NoError(t, err)
	assert.Contains(t, body, "Doe:2020abc")
	assert.Equal(t, "/api/literature", gotPath)
	assert.Equal(t, "q=arxiv:1&sort=mostrecent&size=10&format=bibtex", gotQuery)
}
