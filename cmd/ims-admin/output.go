package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jmespath "github.com/jmespath-community/go-jmespath"
)

type outputOptions struct {
	Query string
	Table bool
}

func (o *outputOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.Query, "query", "", "JMESPath expression applied to the JSON output")
	fs.BoolVar(&o.Table, "table", false, "print a table instead of JSON")
}

type column struct {
	header string
	expr   string
}

// tableSpec selects the rows of a response and the columns shown for each
// row. Both are JMESPath expressions over the response JSON.
type tableSpec struct {
	rows    string
	columns []column
}

var (
	productTable = tableSpec{rows: "products", columns: []column{
		{"ID", "id"}, {"NAME", "name"}, {"SKU", "sku"}, {"PRICE", "price"}, {"STOCK", "stockQuantity"},
	}}
	categoryTable = tableSpec{rows: "categories", columns: []column{
		{"ID", "id"}, {"NAME", "name"},
	}}
	supplierTable = tableSpec{rows: "suppliers", columns: []column{
		{"ID", "id"}, {"NAME", "name"}, {"CONTACT", "contactInfo"}, {"ADDRESS", "address"},
	}}
	transactionTable = tableSpec{rows: "transactions", columns: []column{
		{"ID", "id"}, {"TYPE", "transactionType"}, {"STATUS", "transactionStatus"},
		{"PRODUCT", "product.name"}, {"QTY", "totalProducts"}, {"TOTAL", "totalPrice"}, {"CREATED", "createdAt"},
	}}
	requestTable = tableSpec{rows: "requests", columns: []column{
		{"ID", "id"}, {"STATUS", "requestStatus"}, {"PRODUCT", "product.name"},
		{"QTY", "totalProducts"}, {"DESCRIPTION", "description"}, {"CREATED", "createdAt"},
	}}
)

// generic converts v into the map/slice form JMESPath evaluates against.
func generic(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	return out, nil
}

// emit writes v as indented JSON, projected by -query, or as a table.
func emit(w io.Writer, opts outputOptions, v any, table *tableSpec) error {
	data, err := generic(v)
	if err != nil {
		return err
	}
	if opts.Query != "" {
		data, err = jmespath.Search(opts.Query, data)
		if err != nil {
			return fmt.Errorf("query %q: %w", opts.Query, err)
		}
	}
	if opts.Table {
		if table == nil {
			return errors.New("this command has no table view")
		}
		if opts.Query != "" {
			return errors.New("-query and -table cannot be combined")
		}
		return writeTable(w, *table, data)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeTable(w io.Writer, spec tableSpec, data any) error {
	selected, err := jmespath.Search(spec.rows, data)
	if err != nil {
		return fmt.Errorf("select rows: %w", err)
	}
	rows, _ := selected.([]any)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(spec.columns))
	for i, c := range spec.columns {
		headers[i] = c.header
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(spec.columns))
		for i, c := range spec.columns {
			v, err := jmespath.Search(c.expr, row)
			if err != nil {
				return fmt.Errorf("column %s: %w", c.header, err)
			}
			cells[i] = cell(v)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprint(x)
	}
}
