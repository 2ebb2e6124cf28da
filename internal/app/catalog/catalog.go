/*
Package catalog loads the product catalog from a sales CSV export.

Only the sku, color, size and unit_price columns are read; rows with any of them
missing are skipped and the first row seen for a sku wins.
*/
package catalog

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopreco/internal/app/shop"
)

//go:embed sample.csv
var sampleCSV string

var requiredColumns = []string{"sku", "color", "size", "unit_price"}

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("catalog: missing column")

// Catalog is an immutable, ordered product list with sku lookup.
type Catalog struct {
	products []shop.CatalogItem
	bySKU    map[string]int
}

// New builds a Catalog from products, keeping the first entry for each sku.
func New(products []shop.CatalogItem) *Catalog {
	c := &Catalog{
		products: make([]shop.CatalogItem, 0, len(products)),
		bySKU:    make(map[string]int, len(products)),
	}

	for _, p := range products {
		if _, dup := c.bySKU[p.SKU]; dup {
			continue
		}
		c.bySKU[p.SKU] = len(c.products)
		c.products = append(c.products, p)
	}

	return c
}

// Parse reads a CSV export with a header row.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	var products []shop.CatalogItem
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: line %d: %w", line, err)
		}

		item, ok := parseRecord(record, idx)
		if !ok {
			continue
		}
		products = append(products, item)
	}

	return New(products), nil
}

// ParseSample returns the catalog bundled with the binary.
func ParseSample() (*Catalog, error) {
	return Parse(strings.NewReader(sampleCSV))
}

func parseRecord(record []string, idx map[string]int) (shop.CatalogItem, bool) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	sku, color, size, price := field("sku"), field("color"), field("size"), field("unit_price")
	if sku == "" || color == "" || size == "" || price == "" {
		return shop.CatalogItem{}, false
	}

	unitPrice, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return shop.CatalogItem{}, false
	}

	return shop.CatalogItem{SKU: sku, Color: color, Size: size, UnitPrice: unitPrice}, true
}

// Len returns the number of distinct products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// All returns the products in file order. The slice must not be modified.
func (c *Catalog) All() []shop.CatalogItem {
	return c.products
}

// Head returns at most n products in file order.
func (c *Catalog) Head(n int) []shop.CatalogItem {
	if n < 0 || n > len(c.products) {
		n = len(c.products)
	}
	out := make([]shop.CatalogItem, n)
	copy(out, c.products[:n])
	return out
}

// Lookup returns the product for sku.
func (c *Catalog) Lookup(sku string) (shop.CatalogItem, bool) {
	i, ok := c.bySKU[sku]
	if !ok {
		return shop.CatalogItem{}, false
	}
	return c.products[i], true
}

// Contains reports whether sku is in the catalog.
func (c *Catalog) Contains(sku string) bool {
	_, ok := c.bySKU[sku]
	return ok
}
