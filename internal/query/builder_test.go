package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
)

func mustValues(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestParse_RangeFiltersSortAndPage(t *testing.T) {
	params := mustValues(t, "price[gte]=10&price[lte]=50&sort=-createdAt&page=2&limit=5")

	spec, err := Parse(params, Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []Filter{
		{Field: "price", Op: OpGte, Value: "10"},
		{Field: "price", Op: OpLte, Value: "50"},
	}, spec.Filters)
	assert.Equal(t, []SortKey{{Field: "createdAt", Desc: true}}, spec.Sort)
	assert.Equal(t, 2, spec.Page)
	assert.Equal(t, 5, spec.Limit)
	assert.Equal(t, 5, spec.Skip)
}

func TestParse_Defaults(t *testing.T) {
	spec, err := Parse(url.Values{}, Options{DefaultSort: "-createdAt"})
	require.NoError(t, err)

	assert.Empty(t, spec.Filters)
	assert.Equal(t, []SortKey{{Field: "createdAt", Desc: true}}, spec.Sort)
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, DefaultLimit, spec.Limit)
	assert.Equal(t, 0, spec.Skip)
	assert.Empty(t, spec.Fields)
}

func TestParse_LimitClampedAndLenientPaging(t *testing.T) {
	tests := []struct {
		raw       string
		wantPage  int
		wantLimit int
	}{
		{"limit=100000", 1, MaxLimit},
		{"limit=abc&page=xyz", 1, DefaultLimit},
		{"limit=0&page=-3", 1, DefaultLimit},
		{"limit=20&page=3", 3, 20},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, err := Parse(mustValues(t, tt.raw), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, spec.Page)
			assert.Equal(t, tt.wantLimit, spec.Limit)
			assert.Equal(t, (tt.wantPage-1)*tt.wantLimit, spec.Skip)
		})
	}
}

func TestParse_EqualitySortListAndFields(t *testing.T) {
	spec, err := Parse(mustValues(t, "name=ann&sort=name,-createdAt&fields=name,bio"), Options{})
	require.NoError(t, err)

	assert.Equal(t, []Filter{{Field: "name", Op: OpEq, Value: "ann"}}, spec.Filters)
	assert.Equal(t, []SortKey{{Field: "name"}, {Field: "createdAt", Desc: true}}, spec.Sort)
	assert.Equal(t, []string{"name", "bio"}, spec.Fields)
}

func TestParse_MalformedKeysRejected(t *testing.T) {
	for _, raw := range []string{
		"price[foo]=1",
		"price[]=1",
		"price[gte=1",
		"[gte]=1",
		"price[gte][lt]=1",
		"sort=-",
		"fields=na me",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(mustValues(t, raw), Options{})
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}
