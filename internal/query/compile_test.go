package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/apperr"
)

var testSchema = Schema{
	Columns: map[string]Column{
		"name":      {Expr: "u.name", Type: Text, Filterable: true, Sortable: true},
		"price":     {Expr: "p.price", Type: Int, Filterable: true, Sortable: true},
		"createdAt": {Expr: "p.created_at", Type: Time, Filterable: true, Sortable: true, Key: "created_at"},
		"active":    {Expr: "u.active", Type: Bool, Filterable: true},
		"bio":       {Expr: "u.bio", Type: Text},
	},
	Tiebreak: "p.id",
}

func TestCompile_RendersPlaceholdersFromFirstArg(t *testing.T) {
	spec := Spec{
		Filters: []Filter{
			{Field: "price", Op: OpGte, Value: "10"},
			{Field: "price", Op: OpLte, Value: "50"},
		},
		Sort:  []SortKey{{Field: "createdAt", Desc: true}},
		Limit: 5,
		Skip:  5,
	}

	c, err := Compile(spec, testSchema, 2)
	require.NoError(t, err)

	assert.Equal(t, "p.price >= $2 AND p.price <= $3", c.WhereSQL())
	assert.Equal(t, []any{int64(10), int64(50)}, c.Args)
	assert.Equal(t, "p.created_at DESC, p.id ASC", c.OrderBy)

	clause, args := c.Page()
	assert.Equal(t, "LIMIT $4 OFFSET $5", clause)
	assert.Equal(t, []any{int64(10), int64(50), 5, 5}, args)
}

func TestCompile_NoFilters(t *testing.T) {
	c, err := Compile(Spec{Limit: 100}, testSchema, 1)
	require.NoError(t, err)

	assert.Equal(t, "TRUE", c.WhereSQL())
	assert.Equal(t, "p.id ASC", c.OrderBy)
}

func TestCompile_ConvertsTimes(t *testing.T) {
	c, err := Compile(Spec{Filters: []Filter{{Field: "createdAt", Op: OpGt, Value: "2026-01-02"}}}, testSchema, 1)
	require.NoError(t, err)

	got, ok := c.Args[0].(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestCompile_FieldsUseProjectionKey(t *testing.T) {
	c, err := Compile(Spec{Fields: []string{"name", "createdAt"}}, testSchema, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "created_at"}, c.Fields)
}

func TestCompile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown filter", Spec{Filters: []Filter{{Field: "password", Op: OpEq, Value: "x"}}}},
		{"not filterable", Spec{Filters: []Filter{{Field: "bio", Op: OpEq, Value: "x"}}}},
		{"bad int", Spec{Filters: []Filter{{Field: "price", Op: OpGt, Value: "ten"}}}},
		{"range on bool", Spec{Filters: []Filter{{Field: "active", Op: OpGt, Value: "true"}}}},
		{"unknown sort", Spec{Sort: []SortKey{{Field: "email"}}}},
		{"not sortable", Spec{Sort: []SortKey{{Field: "bio"}}}},
		{"unknown field", Spec{Fields: []string{"passwordHash"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.spec, testSchema, 1)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestProject(t *testing.T) {
	type row struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	items := []row{{Name: "ann", Bio: "hi"}}

	all, err := Project(items, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{items[0]}, all)

	some, err := Project(items, []string{"name"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Len(t, some[0], 1)
}
