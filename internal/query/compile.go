package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"CREATESHARE_BACK-END/internal/apperr"
)

// ColumnType drives value conversion for filters
type ColumnType int

const (
	Text ColumnType = iota
	Int
	Time
	Bool
	UUID
)

// Column maps an API field name to a SQL expression
type Column struct {
	Expr       string
	Type       ColumnType
	Filterable bool
	Sortable   bool
	// Key is the JSON key used for projection; empty means the field name
	Key string
}

// Schema is the allow-list of fields a listing accepts
type Schema struct {
	Columns map[string]Column
	// Tiebreak is appended to every ORDER BY so pages are stable
	Tiebreak string
}

// Compiled holds SQL fragments ready to be spliced into a statement.
// Placeholders in Where are numbered from the firstArg given to Compile.
type Compiled struct {
	Where   []string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
	Fields  []string
	nextArg int
}

// Compile validates spec against schema and renders it as SQL
func Compile(spec Spec, schema Schema, firstArg int) (Compiled, error) {
	if firstArg < 1 {
		firstArg = 1
	}
	c := Compiled{Limit: spec.Limit, Offset: spec.Skip, nextArg: firstArg}

	for _, f := range spec.Filters {
		col, ok := schema.Columns[f.Field]
		if !ok || !col.Filterable {
			return Compiled{}, apperr.Validation(fmt.Sprintf("cannot filter on %q", f.Field))
		}
		if (col.Type == Bool || col.Type == UUID) && f.Op != OpEq {
			return Compiled{}, apperr.Validation(fmt.Sprintf("operator %s is not supported on %q", f.Op, f.Field))
		}
		v, err := convert(col.Type, f.Value)
		if err != nil {
			return Compiled{}, apperr.Validation(fmt.Sprintf("invalid value for %q: %v", f.Field, err))
		}
		c.Where = append(c.Where, fmt.Sprintf("%s %s $%d", col.Expr, sqlOps[f.Op], c.nextArg))
		c.Args = append(c.Args, v)
		c.nextArg++
	}

	order := make([]string, 0, len(spec.Sort)+1)
	for _, k := range spec.Sort {
		col, ok := schema.Columns[k.Field]
		if !ok || !col.Sortable {
			return Compiled{}, apperr.Validation(fmt.Sprintf("cannot sort on %q", k.Field))
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		order = append(order, col.Expr+" "+dir)
	}
	if schema.Tiebreak != "" {
		order = append(order, schema.Tiebreak+" ASC")
	}
	c.OrderBy = strings.Join(order, ", ")

	fields, err := schema.Keys(spec.Fields)
	if err != nil {
		return Compiled{}, err
	}
	c.Fields = fields

	return c, nil
}

// Keys maps requested field names to their projection keys
func (s Schema) Keys(fields []string) ([]string, error) {
	var keys []string
	for _, name := range fields {
		col, ok := s.Columns[name]
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown field %q", name))
		}
		if col.Key != "" {
			name = col.Key
		}
		keys = append(keys, name)
	}
	return keys, nil
}

// WhereSQL joins the filter conditions with AND, or returns "TRUE"
func (c Compiled) WhereSQL() string {
	if len(c.Where) == 0 {
		return "TRUE"
	}
	return strings.Join(c.Where, " AND ")
}

// Page returns the LIMIT/OFFSET clause and its arguments appended to Args
func (c Compiled) Page() (string, []any) {
	clause := fmt.Sprintf("LIMIT $%d OFFSET $%d", c.nextArg, c.nextArg+1)
	args := make([]any, 0, len(c.Args)+2)
	args = append(args, c.Args...)
	args = append(args, c.Limit, c.Offset)
	return clause, args
}

func convert(t ColumnType, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch t {
	case Int:
		return strconv.ParseInt(raw, 10, 64)
	case Bool:
		return strconv.ParseBool(raw)
	case UUID:
		return uuid.Parse(raw)
	case Time:
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts, nil
		}
		return time.Parse("2006-01-02", raw)
	default:
		return raw, nil
	}
}
