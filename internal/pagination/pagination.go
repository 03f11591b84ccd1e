// Package pagination builds paginated, sorted list queries and the page envelope
// returned by every list endpoint.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"blogmesh/internal/middleware"

	"gorm.io/gorm"
)

const (
	DefaultPageNo   = 0
	DefaultPageSize = 10
	DefaultSortBy   = "id"
	DefaultSortDir  = "asc"
	MaxPageSize     = 100
)

// ErrUnknownSortField is returned when sortBy is not in the entity's column whitelist.
var ErrUnknownSortField = errors.New("unknown sort field")

// Request is the page and sort selection supplied by the client.
type Request struct {
	PageNo   int
	PageSize int
	SortBy   string
	SortDir  string
}

// NewRequest parses raw query parameters. Missing or non-integer values fall back to the defaults.
func NewRequest(pageNo, pageSize, sortBy, sortDir string) Request {
	return Request{
		PageNo:   atoiOr(pageNo, DefaultPageNo),
		PageSize: atoiOr(pageSize, DefaultPageSize),
		SortBy:   strings.TrimSpace(sortBy),
		SortDir:  strings.TrimSpace(sortDir),
	}.Normalize()
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Normalize clamps the page number and size and fills in sort defaults.
func (r Request) Normalize() Request {
	if r.PageNo < 0 {
		r.PageNo = 0
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if r.SortBy == "" {
		r.SortBy = DefaultSortBy
	}
	if r.SortDir == "" {
		r.SortDir = DefaultSortDir
	}
	return r
}

// Ascending reports whether the sort direction is "asc". Anything else sorts descending.
func (r Request) Ascending() bool {
	return strings.EqualFold(r.SortDir, "asc")
}

// Columns maps accepted sortBy names to database columns. Both the JSON field
// name and the column name of a field are usually listed.
type Columns map[string]string

// NewColumns builds a whitelist from JSON name to column name pairs and also
// accepts every column name as itself.
func NewColumns(pairs map[string]string) Columns {
	cols := make(Columns, len(pairs)*2)
	for name, column := range pairs {
		cols[name] = column
		cols[column] = column
	}
	return cols
}

// Resolve returns the column for sortBy.
func (c Columns) Resolve(sortBy string) (string, error) {
	if col, ok := c[sortBy]; ok {
		return col, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, sortBy)
}

// OrderClause returns the ORDER BY clause for the request.
func (c Columns) OrderClause(req Request) (string, error) {
	col, err := c.Resolve(req.SortBy)
	if err != nil {
		return "", err
	}
	dir := "DESC"
	if req.Ascending() {
		dir = "ASC"
	}
	return col + " " + dir, nil
}

// Page is the pagination envelope.
type Page[T any] struct {
	Content      []T   `json:"content"`
	PageNo       int   `json:"pageNo"`
	PageSize     int   `json:"pageSize"`
	TotalElement int64 `json:"totalElement"`
	TotalPages   int   `json:"totalPages"`
	LastPage     bool  `json:"lastPage"`
}

// TotalPages returns max(1, ceil(total/pageSize)).
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// NewPage builds an envelope around the rows of one page.
func NewPage[T any](content []T, pageNo int, total int64, requestedSize int) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := TotalPages(total, requestedSize)
	return &Page[T]{
		Content:      content,
		PageNo:       pageNo,
		PageSize:     len(content),
		TotalElement: total,
		TotalPages:   totalPages,
		LastPage:     pageNo == totalPages-1,
	}
}

// Map converts the page content, keeping every envelope field.
func Map[E, D any](p *Page[E], fn func(E) D) *Page[D] {
	out := make([]D, len(p.Content))
	for i, e := range p.Content {
		out[i] = fn(e)
	}
	return WithContent(p, out)
}

// WithContent returns a page carrying p's envelope around content, which
// holds the already converted elements of p in the same order.
func WithContent[E, D any](p *Page[E], content []D) *Page[D] {
	if content == nil {
		content = []D{}
	}
	return &Page[D]{
		Content:      content,
		PageNo:       p.PageNo,
		PageSize:     p.PageSize,
		TotalElement: p.TotalElement,
		TotalPages:   p.TotalPages,
		LastPage:     p.LastPage,
	}
}

// Query counts the rows matched by db, clamps the page number to the last
// page and loads that page. db carries the model and any filters; scopes
// such as preloads apply to the page query only.
func Query[T any](ctx context.Context, db *gorm.DB, req Request, cols Columns, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	req = req.Normalize()
	order, err := cols.OrderClause(req)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(req.SortDir, "asc") && !strings.EqualFold(req.SortDir, "desc") {
		middleware.Logger.WarnContext(ctx, "unrecognized sort direction, sorting descending",
			slog.String("sortDir", req.SortDir),
			slog.String("sortBy", req.SortBy),
		)
	}

	var total int64
	if err := db.WithContext(ctx).Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := TotalPages(total, req.PageSize)
	pageNo := req.PageNo
	if pageNo > totalPages-1 {
		pageNo = totalPages - 1
	}

	var rows []T
	if total > 0 {
		err := db.WithContext(ctx).Session(&gorm.Session{}).
			Scopes(scopes...).
			Order(order).
			Offset(pageNo * req.PageSize).
			Limit(req.PageSize).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
	}

	return NewPage(rows, pageNo, total, req.PageSize), nil
}
