package shared

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"

	qs "github.com/derekstavis/go-qs"
)

const (
	formDepthLimit     = 5
	formParameterLimit = 1000
	formArrayLimit     = 20
)

var (
	ErrTooManyParameters = errors.New("too many parameters")
	ErrFormTooDeep       = errors.New("form key nested too deeply")
)

// ParseForm decodes an application/x-www-form-urlencoded body.
//
// In extended mode bracketed keys build nested values: "a[b]=1" is an object,
// "a[]=1&a[]=2" is an array and objects whose keys are all small indices
// ("a[0]", "a[1]") collapse into arrays. Without extended mode the result is
// flat and repeated keys turn into arrays.
func ParseForm(body string, extended bool) (map[string]any, error) {
	if body == "" {
		return map[string]any{}, nil
	}

	if strings.Count(body, "&")+1 > formParameterLimit {
		return nil, ErrTooManyParameters
	}

	if !extended {
		return parseFlatForm(body)
	}

	normalized, err := normalizeFormBody(body)
	if err != nil {
		return nil, err
	}
	if normalized == "" {
		return map[string]any{}, nil
	}

	root, err := qs.Unmarshal(normalized)
	if err != nil {
		return nil, err
	}

	for k, v := range root {
		root[k] = compactFormValue(v)
	}

	return root, nil
}

func parseFlatForm(body string) (map[string]any, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, err
	}

	root := make(map[string]any, len(values))
	for key, list := range values {
		if key == "" {
			continue
		}
		if len(list) == 1 {
			root[key] = list[0]
			continue
		}
		items := make([]any, len(list))
		for i, v := range list {
			items[i] = v
		}
		root[key] = items
	}

	return root, nil
}

// normalizeFormBody re-encodes every pair so the decoder sees one value per
// pair: keys past the depth limit are rejected, a bare key gets an empty
// value and a plain key that repeats becomes an append ("a" to "a[]").
func normalizeFormBody(body string) (string, error) {
	type pair struct{ key, value string }

	var pairs []pair
	seen := map[string]int{}
	for _, raw := range strings.Split(body, "&") {
		if raw == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(raw, "=")
		key := unescapeFormComponent(rawKey)
		if key == "" {
			continue
		}
		if strings.Count(key, "[") > formDepthLimit {
			return "", ErrFormTooDeep
		}

		pairs = append(pairs, pair{key: key, value: unescapeFormComponent(rawValue)})
		if !strings.Contains(key, "[") {
			seen[key]++
		}
	}

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		key := p.key
		if seen[key] > 1 {
			key += "[]"
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}

	return sb.String(), nil
}

func unescapeFormComponent(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}

func compactFormValue(node any) any {
	switch v := node.(type) {
	case []any:
		for i := range v {
			v[i] = compactFormValue(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = compactFormValue(v[k])
		}
		if list, ok := indexedMapToList(v); ok {
			return list
		}
		return v
	default:
		return node
	}
}

func indexedMapToList(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}

	indices := make([]int, 0, len(m))
	for k := range m {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx > formArrayLimit || strconv.Itoa(idx) != k {
			return nil, false
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	list := make([]any, 0, len(indices))
	for _, idx := range indices {
		list = append(list, m[strconv.Itoa(idx)])
	}

	return list, true
}
