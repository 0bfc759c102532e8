package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request context.
// Access is only known on guarded routes; public pages render logged-out chrome.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	if access, ok := AccessFromContext(r.Context()); ok {
		layout.IsAuthenticated = access != domainauth.AccessUnauthenticated
		layout.IsAdmin = access == domainauth.AccessAdmin
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
		"Errors":          map[string]string{},
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}

	return data
}

// getPageParams parses pagination params from URL query with sane defaults.
func getPageParams(q url.Values) (int, int) {
	page := 1
	pageSize := listPageSize
	if p := q.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

// buildPageURL returns a URL with page and page_size set, preserving other query params.
// basePath should be the path without query string (e.g., "/products").
// Whitespace-only query values are dropped.
func buildPageURL(basePath string, q url.Values, page, pageSize int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if len(v) == 0 {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(page))
	if pageSize != listPageSize {
		qq.Set("page_size", strconv.Itoa(pageSize))
	} else {
		qq.Del("page_size")
	}
	if enc := qq.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}

// paginateSlice cuts the requested page out of a fully fetched list. The
// backend has no paging, so every list view pages in memory. A page past the
// end is clamped to the last page.
func paginateSlice[T any](r *http.Request, items []T) ([]T, viewmodel.Pagination) {
	q := r.URL.Query()
	page, pageSize := getPageParams(q)
	total := len(items)

	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	page = min(page, pages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	p := viewmodel.Pagination{
		Page:       page,
		PageSize:   pageSize,
		HasPrev:    page > 1,
		HasNext:    page < pages,
		TotalCount: total,
	}
	if total > 0 {
		p.StartIndex = start + 1
		p.EndIndex = end
	}
	if p.HasPrev {
		p.PrevURL = buildPageURL(r.URL.Path, q, page-1, pageSize)
	}
	if p.HasNext {
		p.NextURL = buildPageURL(r.URL.Path, q, page+1, pageSize)
	}
	return items[start:end], p
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithPagination adds pagination data.
func (b *TemplateDataBuilder) WithPagination(p viewmodel.Pagination) *TemplateDataBuilder {
	b.data["Pagination"] = p
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
