package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/http/validation"
)

// movement describes one of the stock movement forms.
type movement struct {
	Path          string
	Title         string
	Submit        string
	NeedsSupplier bool
	Success       string
	send          func(ctx context.Context, in model.TransactionRequest) (*model.Response, error)
}

func (h *UIHandlers) purchase() movement {
	return movement{
		Path: "/purchase", Title: "Receive Inventory", Submit: "Purchase",
		NeedsSupplier: true, Success: "Purchase recorded.", send: h.API.Purchase,
	}
}

func (h *UIHandlers) sale() movement {
	return movement{
		Path: "/sale", Title: "Withdraw Inventory", Submit: "Withdraw",
		Success: "Sale recorded.", send: h.API.Sell,
	}
}

func (h *UIHandlers) returnToSupplier() movement {
	return movement{
		Path: "/return", Title: "Return to Supplier", Submit: "Return",
		NeedsSupplier: true, Success: "Return recorded.", send: h.API.ReturnToSupplier,
	}
}

type movementForm struct {
	ProductID   string
	SupplierID  string
	Quantity    string
	Description string
	Note        string
}

func (h *UIHandlers) renderMovement(w http.ResponseWriter, r *http.Request, status int, m movement, form movementForm, errs map[string]string) {
	b := NewTemplateData(r, PageMeta{Title: m.Title, PageTitle: m.Title, CurrentPage: PageTransactionForm}).
		With("Movement", m).
		With("Form", form).
		WithFieldErrors(errs)

	products, err := h.API.GetAllProducts(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	b.With("Products", products.Products)
	if m.NeedsSupplier {
		suppliers, err := h.API.GetAllSuppliers(r.Context())
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		b.With("Suppliers", suppliers.Suppliers)
	}
	if len(errs) > 0 {
		b.WithError(errMsgFixBelow)
	}
	h.render(w, r, status, b.Build())
}

func (h *UIHandlers) movementPage(m movement) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderMovement(w, r, http.StatusOK, m, movementForm{}, nil)
	}
}

func (h *UIHandlers) submitMovement(m movement) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := movementForm{
			ProductID:   strings.TrimSpace(r.PostFormValue("productId")),
			SupplierID:  strings.TrimSpace(r.PostFormValue("supplierId")),
			Quantity:    strings.TrimSpace(r.PostFormValue("quantity")),
			Description: strings.TrimSpace(r.PostFormValue("description")),
			Note:        strings.TrimSpace(r.PostFormValue("note")),
		}
		fv := validation.New().
			Validate("productId", form.ProductID, validation.PositiveInt("Product")).
			Validate("quantity", form.Quantity, validation.PositiveInt("Quantity")).
			Validate("description", form.Description, validation.Optional("Description", 1000)).
			Validate("note", form.Note, validation.Optional("Note", 1000))
		if m.NeedsSupplier {
			fv.Validate("supplierId", form.SupplierID, validation.PositiveInt("Supplier"))
		}
		if !fv.Valid() {
			h.renderMovement(w, r, http.StatusUnprocessableEntity, m, form, fv.Errors())
			return
		}

		in := model.TransactionRequest{
			ProductID:   formID(r, "productId"),
			Description: form.Description,
			Note:        form.Note,
		}
		in.Quantity, _ = strconv.Atoi(form.Quantity)
		if m.NeedsSupplier {
			in.SupplierID = formID(r, "supplierId")
		}
		if _, err := m.send(r.Context(), in); err != nil {
			h.mutationFailed(w, r, err, m.Path, "Error recording transaction.")
			return
		}
		h.flashRedirect(w, r, m.Path, flashSuccess, m.Success)
	}
}

// transactionStats are the counters above the transaction list.
type transactionStats struct {
	Total      int
	Completed  int
	Pending    int
	TotalValue float64
}

// transactionFilter is the parsed query of the transaction list.
type transactionFilter struct {
	Query  string
	Status string
	Type   string
	Start  string
	End    string
}

func parseTransactionFilter(r *http.Request) (transactionFilter, map[string]string) {
	q := r.URL.Query()
	f := transactionFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		Status: strings.ToUpper(strings.TrimSpace(q.Get("status"))),
		Type:   strings.ToUpper(strings.TrimSpace(q.Get("type"))),
		Start:  strings.TrimSpace(q.Get("start")),
		End:    strings.TrimSpace(q.Get("end")),
	}
	v := validation.New().
		Validate("start", f.Start, validation.Date("Start date")).
		Validate("end", f.End, validation.Date("End date"))
	return f, v.Errors()
}

// filterTransactions applies the status and type filters the backend does not support.
func filterTransactions(txs []model.Transaction, f transactionFilter) ([]model.Transaction, transactionStats) {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Status != "" && string(tx.TransactionStatus) != f.Status {
			continue
		}
		if f.Type != "" && string(tx.TransactionType) != f.Type {
			continue
		}
		out = append(out, tx)
	}
	return out, summarizeTransactions(out)
}

func summarizeTransactions(txs []model.Transaction) transactionStats {
	stats := transactionStats{Total: len(txs)}
	for _, tx := range txs {
		switch tx.TransactionStatus {
		case model.TransactionCompleted:
			stats.Completed++
		case model.TransactionPending:
			stats.Pending++
		}
		if tx.TransactionType == model.TransactionPurchase {
			stats.TotalValue += tx.TotalPrice
		}
	}
	return stats
}

// fetchTransactions loads the transactions a filter selects. A complete,
// valid date range queries the backend by date; otherwise the free-text
// filter is passed through.
func (h *UIHandlers) fetchTransactions(ctx context.Context, filter transactionFilter) (*model.Response, error) {
	start, startErr := time.Parse(time.DateOnly, filter.Start)
	end, endErr := time.Parse(time.DateOnly, filter.End)
	if startErr == nil && endErr == nil {
		return h.API.GetTransactionsBetweenDates(ctx, start, end)
	}
	return h.API.GetAllTransactions(ctx, filter.Query)
}

// exportURL links the PDF export to the filters of the current list.
func exportURL(r *http.Request) string {
	q := r.URL.Query()
	q.Del("page")
	if len(q) == 0 {
		return "/transactions/export.pdf"
	}
	return "/transactions/export.pdf?" + q.Encode()
}

// TransactionsPage lists transactions.
func (h *UIHandlers) TransactionsPage(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Transaction, transactionFilter]{
		Handler: h, W: w, R: r,
		FilterParser: parseTransactionFilter,
		Fetcher: func(ctx context.Context, f transactionFilter) ([]model.Transaction, error) {
			resp, err := h.fetchTransactions(ctx, f)
			if err != nil {
				return nil, err
			}
			return resp.Transactions, nil
		},
		Filter: func(txs []model.Transaction, f transactionFilter) []model.Transaction {
			out, _ := filterTransactions(txs, f)
			return out
		},
		EnrichData: func(b *TemplateDataBuilder, txs []model.Transaction, f transactionFilter) {
			b.With("Stats", summarizeTransactions(txs)).
				With("Filter", f).
				With("ExportURL", exportURL(r)).
				With("Statuses", model.TransactionStatuses()).
				With("Types", []model.TransactionType{model.TransactionPurchase, model.TransactionSale, model.TransactionReturnToSupplier})
		},
		PageMeta:           PageMeta{Title: "Transactions", PageTitle: "Transactions", CurrentPage: PageTransactions},
		ItemsKey:           "Transactions",
		FilterErrorMessage: "The date range was ignored. " + errMsgFixBelow,
	})
}

// TransactionPage shows one transaction with its status form.
func (h *UIHandlers) TransactionPage(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathID(r, "transactionId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	resp, err := h.API.GetTransactionByID(r.Context(), transactionID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if resp.Transaction == nil {
		h.NotFound(w, r)
		return
	}
	data := NewTemplateData(r, PageMeta{
		Title:       fmt.Sprintf("Transaction #%d", transactionID),
		PageTitle:   "Transaction Details",
		CurrentPage: PageTransaction,
	}).
		With("Transaction", resp.Transaction).
		With("Statuses", model.TransactionStatuses()).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// UpdateTransactionStatus moves a transaction to the submitted status.
func (h *UIHandlers) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathID(r, "transactionId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	back := fmt.Sprintf("/transaction/%d", transactionID)

	status := strings.ToUpper(strings.TrimSpace(r.PostFormValue("status")))
	options := make([]string, 0, len(model.TransactionStatuses()))
	for _, s := range model.TransactionStatuses() {
		options = append(options, string(s))
	}
	if msg := validation.OneOf("Status", options)(status); msg != "" {
		h.flashRedirect(w, r, back, flashError, msg)
		return
	}

	if _, err := h.API.UpdateTransactionStatus(r.Context(), transactionID, model.TransactionStatus(status)); err != nil {
		h.mutationFailed(w, r, err, back, "Error updating transaction status.")
		return
	}
	h.flashRedirect(w, r, back, flashSuccess, "Transaction status updated.")
}
