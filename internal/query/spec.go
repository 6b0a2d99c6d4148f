// Package query turns request query parameters into a validated, storage
// independent Spec (Parse) and then into parameterised SQL fragments for a
// given column allow-list (Compile).
//
//	GET /posts?createdAt[gte]=2026-01-01&sort=-createdAt&page=2&limit=5
package query

// Op is a comparison operator in a filter
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

var sqlOps = map[Op]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Filter is one field comparison. Value is kept raw until Compile.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// SortKey orders results by Field
type SortKey struct {
	Field string
	Desc  bool
}

// Spec is the parsed form of a listing request
type Spec struct {
	Filters []Filter
	Sort    []SortKey
	Page    int
	Limit   int
	Skip    int
	Fields  []string
}

// Options controls Parse. Zero values fall back to the package defaults.
type Options struct {
	DefaultSort  string
	DefaultLimit int
	MaxLimit     int
	Reserved     []string
}

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// DefaultReserved are the parameter names that are never treated as filters
var DefaultReserved = []string{"page", "limit", "sort", "fields"}

func (o Options) withDefaults() Options {
	if o.MaxLimit <= 0 {
		o.MaxLimit = MaxLimit
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultLimit
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	if len(o.Reserved) == 0 {
		o.Reserved = DefaultReserved
	}
	return o
}
