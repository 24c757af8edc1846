package apis

import "strings"

// Param is one query-string parameter. Multiple values are joined into a
// single value.
type Param struct {
	Name   string
	Values []string
}

// P builds a Param.
func P(name string, values ...string) Param {
	return Param{Name: name, Values: values}
}

// FormParams returns the &-separated query string, without a leading "?",
// in parameter order. Each parameter's values are joined with joiner, then
// trimmed, and spaces become %20. Nothing else is escaped so that search
// syntax such as "arxiv:2404.01687" reaches the server as written.
// Parameters with no values are skipped.
func FormParams(joiner string, params ...Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if len(p.Values) == 0 {
			continue
		}
		v := strings.TrimSpace(strings.Join(p.Values, joiner))
		v = strings.ReplaceAll(v, " ", "%20")
		parts = append(parts, p.Name+"="+v)
	}
	return strings.Join(parts, "&")
}
