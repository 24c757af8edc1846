package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, testCollection()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`{"key":"Doe:2020","type":"article","fields":{"year":"2020","keywords":"x,y","author":"Doe, Jane"}}`,
		lines[0])

	got, err := ReadJSONL(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Doe:2020", "Aardvark:1999"}, got.Keys())
	doe, _ := got.Get("Doe:2020")
	assert.Equal(t, []string{"year", "keywords", "author"}, doe.Names())
}

func TestReadJSONL_SkipsBlankLines(t *testing.T) {
	input := "\n" + `{"key":"a","type":"misc","fields":{}}` + "\n\n" +
		`{"key":"a","type":"book","fields":{"t":"x"}}` + "\n"
	got, err := ReadJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	a, _ := got.Get("a")
	assert.Equal(t, "book", a.Kind)
}

func TestReadJSONL_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"malformed", "{\"key\":\n", "parsing line 1"},
		{"missing key", `{"type":"misc","fields":{}}`, "missing key"},
		{"bad field", `{"key":"k","fields":{"n":1}}`, "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSONL(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
