// Package query turns a filter map, a free-text search term and pagination options into a
// parameterized list query plus its matching count query.
//
// Column names reaching this package are trusted. Callers translate request parameters through their
// own allow-list (see internal/core/fields) before building a Request; the builder never quotes or
// validates identifiers.
//
// Placeholders are assigned left to right: the search term first, then filters in sorted key order,
// then LIMIT, then OFFSET. The count query shares the WHERE clause and receives Args[:len(Args)-2].
package query

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/frahmantamala/org-admin/internal/core/sqlbind"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "created_at"

	SortAsc  = "ASC"
	SortDesc = "DESC"
)

type Pagination struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Request struct {
	Table         string
	Columns       []string
	SearchColumns []string
	Search        string
	Filters       map[string]any
	Pagination    Pagination
}

type Plan struct {
	DataQuery  string
	CountQuery string
	Args       []any
	Page       int
	Limit      int
	Offset     int
}

// CountArgs is the prefix of Args bound by the WHERE clause.
func (p Plan) CountArgs() []any {
	if len(p.Args) < 2 {
		return nil
	}
	return p.Args[:len(p.Args)-2]
}

type Builder struct {
	DefaultLimit int
	MaxLimit     int
}

func NewBuilder(defaultLimit, maxLimit int) *Builder {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Builder{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// Normalize applies page, limit and sort defaults.
func (b *Builder) Normalize(p Pagination) Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = b.DefaultLimit
		if p.Limit < 1 {
			p.Limit = DefaultLimit
		}
	}
	if b.MaxLimit > 0 && p.Limit > b.MaxLimit {
		p.Limit = b.MaxLimit
	}
	// (page-1)*limit must stay representable, otherwise OFFSET wraps negative.
	if p.Page-1 > math.MaxInt/p.Limit {
		p.Page = math.MaxInt / p.Limit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if strings.EqualFold(p.SortOrder, SortAsc) {
		p.SortOrder = SortAsc
	} else {
		p.SortOrder = SortDesc
	}
	return p
}

func (b *Builder) Build(req Request) Plan {
	p := b.Normalize(req.Pagination)
	binder := sqlbind.New()

	where := Where(binder, req.SearchColumns, req.Search, req.Filters)

	columns := "*"
	if len(req.Columns) > 0 {
		columns = strings.Join(req.Columns, ", ")
	}

	offset := (p.Page - 1) * p.Limit

	var data strings.Builder
	data.WriteString("SELECT ")
	data.WriteString(columns)
	data.WriteString(" FROM ")
	data.WriteString(req.Table)
	data.WriteString(where)
	data.WriteString(" ORDER BY ")
	data.WriteString(p.SortBy)
	data.WriteString(" ")
	data.WriteString(p.SortOrder)
	data.WriteString(" LIMIT ")
	data.WriteString(binder.Bind(p.Limit))
	data.WriteString(" OFFSET ")
	data.WriteString(binder.Bind(offset))

	return Plan{
		DataQuery:  data.String(),
		CountQuery: "SELECT COUNT(*) FROM " + req.Table + where,
		Args:       binder.Args(),
		Page:       p.Page,
		Limit:      p.Limit,
		Offset:     offset,
	}
}

// Where renders " WHERE ..." (leading space included) or "" when nothing constrains the query.
func Where(b *sqlbind.Binder, searchColumns []string, search string, filters map[string]any) string {
	var preds []string

	if term := strings.TrimSpace(search); term != "" && len(searchColumns) > 0 {
		ph := b.Bind("%" + term + "%")
		ors := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			ors[i] = col + " ILIKE " + ph
		}
		preds = append(preds, "("+strings.Join(ors, " OR ")+")")
	}

	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if isNil(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		preds = append(preds, k+" = "+b.Bind(deref(filters[k])))
	}

	if len(preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(preds, " AND ")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		return rv.Elem().Interface()
	}
	return v
}

// ParsePagination reads page/limit/sort_by/sort_order from query-string values.
func ParsePagination(get func(string) string) Pagination {
	page, _ := strconv.Atoi(get("page"))
	limit, _ := strconv.Atoi(get("limit"))
	return Pagination{
		Page:      page,
		Limit:     limit,
		SortBy:    get("sort_by"),
		SortOrder: get("sort_order"),
	}
}
