package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"CREATESHARE_BACK-END/internal/apperr"
)

// maxPage keeps Skip well inside the int range
const maxPage = 1 << 20

var (
	filterKeyRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[([A-Za-z]*)\])?$`)
	fieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Parse builds a Spec from request parameters. Page and limit are lenient and
// fall back to defaults; malformed filter, sort or field names are rejected.
func Parse(params url.Values, opts Options) (Spec, error) {
	opts = opts.withDefaults()

	reserved := make(map[string]struct{}, len(opts.Reserved))
	for _, k := range opts.Reserved {
		reserved[k] = struct{}{}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if _, ok := reserved[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var spec Spec
	for _, key := range keys {
		field, op, err := parseFilterKey(key)
		if err != nil {
			return Spec{}, err
		}
		for _, v := range params[key] {
			spec.Filters = append(spec.Filters, Filter{Field: field, Op: op, Value: v})
		}
	}

	sortParam := params.Get("sort")
	if strings.TrimSpace(sortParam) == "" {
		sortParam = opts.DefaultSort
	}
	sortKeys, err := parseSort(sortParam)
	if err != nil {
		return Spec{}, err
	}
	spec.Sort = sortKeys

	spec.Fields, err = splitNames(params.Get("fields"), "fields")
	if err != nil {
		return Spec{}, err
	}

	spec.Page = positiveInt(params.Get("page"), 1)
	if spec.Page > maxPage {
		spec.Page = maxPage
	}
	spec.Limit = positiveInt(params.Get("limit"), opts.DefaultLimit)
	if spec.Limit > opts.MaxLimit {
		spec.Limit = opts.MaxLimit
	}
	spec.Skip = (spec.Page - 1) * spec.Limit

	return spec, nil
}

func parseFilterKey(key string) (string, Op, error) {
	m := filterKeyRe.FindStringSubmatch(key)
	if m == nil {
		return "", "", apperr.Validation(fmt.Sprintf("invalid filter parameter %q", key))
	}
	field, rawOp := m[1], m[2]
	if !strings.Contains(key, "[") {
		return field, OpEq, nil
	}
	op := Op(strings.ToLower(rawOp))
	if _, ok := sqlOps[op]; !ok || op == OpEq {
		return "", "", apperr.Validation(fmt.Sprintf("unsupported operator %q in %q", rawOp, key))
	}
	return field, op, nil
}

func parseSort(raw string) ([]SortKey, error) {
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if !fieldNameRe.MatchString(name) {
			return nil, apperr.Validation(fmt.Sprintf("invalid sort field %q", part))
		}
		keys = append(keys, SortKey{Field: name, Desc: desc})
	}
	return keys, nil
}

func splitNames(raw, param string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !fieldNameRe.MatchString(part) {
			return nil, apperr.Validation(fmt.Sprintf("invalid %s entry %q", param, part))
		}
		names = append(names, part)
	}
	return names, nil
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
