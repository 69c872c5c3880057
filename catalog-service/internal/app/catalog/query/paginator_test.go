package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFromParams(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Page
		skip int64
	}{
		{"absent", "", 1, 0},
		{"first", "page=1", 1, 0},
		{"second", "page=2", 2, 12},
		{"third", "page=3", 3, 24},
		{"zero", "page=0", 1, 0},
		{"negative", "page=-4", 1, 0},
		{"not a number", "page=abc", 1, 0},
		{"far beyond data", "page=1000", 1000, 11988},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.raw)

			page := PageFromParams(values)

			assert.Equal(t, tt.want, page)
			assert.Equal(t, tt.skip, page.Skip())
			assert.Equal(t, int64(ResultPerPage), page.Limit())
		})
	}
}

func TestPageFromParams_HugePageDoesNotOverflow(t *testing.T) {
	values := url.Values{"page": {"9223372036854775807"}}

	page := PageFromParams(values)

	assert.Greater(t, page.Skip(), int64(0))
}

func TestFindOptions(t *testing.T) {
	opts := Page(2).FindOptions()

	assert.Equal(t, int64(12), *opts.Skip)
	assert.Equal(t, int64(12), *opts.Limit)
	assert.Equal(t, SortOrder, opts.Sort)
}
