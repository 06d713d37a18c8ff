package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// Expected headers: id,name,description,price,stock,categories,image,sizes,colors.
// List columns are separated by ';'. Rows with an id overwrite the product
// with that id, rows without one always insert.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

var requiredHeaders = []string{"name", "price", "stock", "categories", "description", "image", "sizes", "colors"}

// Run parses CSV rows and upserts one product per row. It stops at the
// first invalid row and returns how many products were written before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return 0, fmt.Errorf("missing column %q", h)
		}
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	id := pick(record, index, "id")
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return domain.Product{}, fmt.Errorf("invalid id %q", id)
		}
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price %q", pick(record, index, "price"))
	}
	stock, err := strconv.Atoi(pick(record, index, "stock"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid stock %q", pick(record, index, "stock"))
	}

	var sizes []domain.Size
	for _, s := range list(pick(record, index, "sizes")) {
		sizes = append(sizes, domain.Size(strings.ToUpper(s)))
	}

	p, err := domain.NewProduct(domain.ProductInput{
		Name:        pick(record, index, "name"),
		Price:       price,
		Stock:       stock,
		Categories:  list(pick(record, index, "categories")),
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
		Sizes:       sizes,
		Colors:      list(pick(record, index, "colors")),
	})
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func list(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
