package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/keygen"
)

func TestRead(t *testing.T) {
	input := `key,type,Title,Author,Year,keywords
Doe:2020,Article,Neutrinos,"Doe, Jane",2020,"x,y"
,book,A Book,"Roe, Richard",2021,
`
	c, err := Read(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	doe, ok := c.Get("Doe:2020")
	require.True(t, ok)
	assert.Equal(t, "article", doe.Kind)
	assert.Equal(t, []string{"title", "author", "year", "keywords"}, doe.Names())
	assert.Equal(t, "x,y", doe.Get("keywords"))

	keys := c.Keys()
	roe, _ := c.Get(keys[1])
	assert.Equal(t, keygen.Generate(roe), keys[1])
	assert.True(t, strings.HasPrefix(keys[1], "Roe:2021"))
	_, hasKeywords := roe.Field("keywords")
	assert.False(t, hasKeywords, "empty cells are omitted")
}

func TestRead_Options(t *testing.T) {
	input := "title\tyear\nTabbed\t1999\n"
	c, err := Read(strings.NewReader(input), Options{Delimiter: '\t', Kind: "techreport"})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	rec, _ := c.Get(c.Keys()[0])
	assert.Equal(t, "techreport", rec.Kind)
	assert.Equal(t, "Tabbed", rec.Get("title"))
}

func TestRead_Semicolons(t *testing.T) {
	input := "key;title;author\nDoe:2020;Neutrinos;Doe, Jane\n"
	c, err := Read(strings.NewReader(input), Options{Delimiter: ';'})
	require.NoError(t, err)

	rec, ok := c.Get("Doe:2020")
	require.True(t, ok)
	assert.Equal(t, "Neutrinos", rec.Get("title"))
	assert.Equal(t, "Doe, Jane", rec.Get("author"))
}

func TestRead_Edges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr string
	}{
		{"empty input", "", 0, ""},
		{"header only", "key,title\n", 0, ""},
		{"blank row skipped", "key,title\n,\n", 0, ""},
		{"short row", "key,title,year\nk,T\n", 1, ""},
		{"too many cells", "key,title\nk,T,extra\n", 0, "only 2 columns"},
		{"empty column name", "key,,title\n", 0, "empty name"},
		{"bare quote", "key,title\nk,a \"b\" c\n", 0, "bare \""},
		{"duplicate key last wins", "key,title\nk,First\nk,Second\n", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Read(strings.NewReader(tt.input), Options{})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.ErrorIs(t, err, export.ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{";", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"ab", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
