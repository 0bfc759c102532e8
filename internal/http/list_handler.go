package httpx

import (
	"context"
	"net/http"
)

// ListFetcher loads every item the parsed filter selects. The backend does not
// page its lists, so paging happens over the returned slice.
type ListFetcher[T any, F any] func(ctx context.Context, filters F) ([]T, error)

// FilterParser parses the list query into a filter. Field errors are rendered
// next to the filter form and the returned filter is still applied.
type FilterParser[F any] func(r *http.Request) (F, map[string]string)

// ListFilter narrows fetched items on criteria the backend cannot filter by.
type ListFilter[T any, F any] func(items []T, filters F) []T

// DataEnricher adds view-specific data. It receives every filtered item, not
// only the current page, so counters cover the whole result.
type DataEnricher[T any, F any] func(builder *TemplateDataBuilder, items []T, filters F)

// ListHandlerOpts contains all options needed for the generic list handler.
// T is the item type and F the filter type.
type ListHandlerOpts[T any, F any] struct {
	// Handler, W and R are required.
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	// Fetcher is required.
	Fetcher      ListFetcher[T, F]
	FilterParser FilterParser[F]
	Filter       ListFilter[T, F]
	EnrichData   DataEnricher[T, F]
	PageMeta     PageMeta
	// ItemsKey is the template data key for the current page of items.
	ItemsKey string
	// FilterErrorMessage is shown when the filter query has field errors.
	FilterErrorMessage string
}

// HandleList renders a paginated list view. Backend failures go through the
// handler's error view, so a 401 still ends the session.
//
//	HandleList(ListHandlerOpts[model.Supplier, struct{}]{
//	    Handler: h, W: w, R: r,
//	    Fetcher: func(ctx context.Context, _ struct{}) ([]model.Supplier, error) {
//	        resp, err := h.API.GetAllSuppliers(ctx)
//	        ...
//	    },
//	    PageMeta: PageMeta{Title: "Suppliers", CurrentPage: PageSuppliers},
//	    ItemsKey: "Suppliers",
//	})
func HandleList[T any, F any](opts ListHandlerOpts[T, F]) {
	if opts.W == nil || opts.R == nil || opts.Handler == nil || opts.Fetcher == nil {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return
	}

	var (
		filters F
		errs    map[string]string
	)
	if opts.FilterParser != nil {
		filters, errs = opts.FilterParser(opts.R)
	}

	items, err := opts.Fetcher(opts.R.Context(), filters)
	if err != nil {
		opts.Handler.renderError(opts.W, opts.R, err)
		return
	}
	if opts.Filter != nil {
		items = opts.Filter(items, filters)
	}

	pageItems, page := paginateSlice(opts.R, items)
	builder := NewTemplateData(opts.R, opts.PageMeta).
		With(opts.ItemsKey, pageItems).
		WithFieldErrors(errs).
		WithPagination(page)
	if opts.EnrichData != nil {
		opts.EnrichData(builder, items, filters)
	}
	if len(errs) > 0 {
		msg := opts.FilterErrorMessage
		if msg == "" {
			msg = errMsgFixBelow
		}
		builder.WithError(msg)
	}
	opts.Handler.render(opts.W, opts.R, http.StatusOK, builder.Build())
}
