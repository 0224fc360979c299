package shared

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormExtended(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "flat",
			body: "name=Jane+Doe&email=jane%40example.com",
			want: map[string]any{"name": "Jane Doe", "email": "jane@example.com"},
		},
		{
			name: "nested object",
			body: "user[name]=jane&user[address][city]=Bandung",
			want: map[string]any{
				"user": map[string]any{
					"name":    "jane",
					"address": map[string]any{"city": "Bandung"},
				},
			},
		},
		{
			name: "append array",
			body: "tags[]=a&tags[]=b",
			want: map[string]any{"tags": []any{"a", "b"}},
		},
		{
			name: "indexed array",
			body: "ids[1]=b&ids[0]=a",
			want: map[string]any{"ids": []any{"a", "b"}},
		},
		{
			name: "repeated key",
			body: "a=1&a=2",
			want: map[string]any{"a": []any{"1", "2"}},
		},
		{
			name: "array of objects",
			body: "items[0][sku]=x&items[1][sku]=y",
			want: map[string]any{
				"items": []any{
					map[string]any{"sku": "x"},
					map[string]any{"sku": "y"},
				},
			},
		},
		{
			name: "key without value",
			body: "flag&x=1",
			want: map[string]any{"flag": "", "x": "1"},
		},
		{
			name: "encoded separators in value",
			body: "note=a%3Db%26c",
			want: map[string]any{"note": "a=b&c"},
		},
		{
			name: "empty body",
			body: "",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseForm(tt.body, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormDepthLimit(t *testing.T) {
	got, err := ParseForm("a[b][c][d][e][f]=ok", true)
	require.NoError(t, err)

	node := got["a"]
	for _, key := range []string{"b", "c", "d", "e"} {
		m, ok := node.(map[string]any)
		require.True(t, ok, "expected object at %q", key)
		node = m[key]
	}
	assert.Equal(t, map[string]any{"f": "ok"}, node)

	_, err = ParseForm("a[b][c][d][e][f][g]=deep", true)
	assert.ErrorIs(t, err, ErrFormTooDeep)
}

func TestParseFormNotExtended(t *testing.T) {
	got, err := ParseForm("user[name]=jane&a=1&a=2", false)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"user[name]": "jane",
		"a":          []any{"1", "2"},
	}, got)
}

func TestParseFormParameterLimit(t *testing.T) {
	body := strings.Repeat("a=1&", formParameterLimit) + "a=1"

	_, err := ParseForm(body, true)
	assert.ErrorIs(t, err, ErrTooManyParameters)
}
