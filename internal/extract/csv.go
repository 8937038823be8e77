// Package extract reads the three raw CSV extracts. Columns are located by
// header name so source systems may reorder or append columns freely.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

type RawCustomer struct {
	CustomerID       string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	City             string
	RegistrationDate string
}

type RawProduct struct {
	ProductID     string
	ProductName   string
	Category      string
	Price         string
	StockQuantity string
}

type RawSale struct {
	TransactionID   string
	CustomerID      string
	ProductID       string
	Quantity        string
	UnitPrice       string
	Status          string
	TransactionDate string
}

// header maps column name -> index for one CSV file.
type header map[string]int

func (h header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func readTable(path string, required []string) (header, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	h := header{}
	for i, name := range head {
		h[name] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	return h, rows, nil
}

func ReadCustomers(path string) ([]RawCustomer, error) {
	cols := []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}
	h, rows, err := readTable(path, cols)
	if err != nil {
		return nil, err
	}
	out := make([]RawCustomer, 0, len(rows))
	for _, rec := range rows {
		out = append(out, RawCustomer{
			CustomerID:       h.get(rec, "customer_id"),
			FirstName:        h.get(rec, "first_name"),
			LastName:         h.get(rec, "last_name"),
			Email:            h.get(rec, "email"),
			Phone:            h.get(rec, "phone"),
			City:             h.get(rec, "city"),
			RegistrationDate: h.get(rec, "registration_date"),
		})
	}
	return out, nil
}

func ReadProducts(path string) ([]RawProduct, error) {
	cols := []string{"product_id", "product_name", "category", "price", "stock_quantity"}
	h, rows, err := readTable(path, cols)
	if err != nil {
		return nil, err
	}
	out := make([]RawProduct, 0, len(rows))
	for _, rec := range rows {
		out = append(out, RawProduct{
			ProductID:     h.get(rec, "product_id"),
			ProductName:   h.get(rec, "product_name"),
			Category:      h.get(rec, "category"),
			Price:         h.get(rec, "price"),
			StockQuantity: h.get(rec, "stock_quantity"),
		})
	}
	return out, nil
}

func ReadSales(path string) ([]RawSale, error) {
	cols := []string{"transaction_id", "customer_id", "product_id", "quantity", "unit_price", "status", "transaction_date"}
	h, rows, err := readTable(path, cols)
	if err != nil {
		return nil, err
	}
	out := make([]RawSale, 0, len(rows))
	for _, rec := range rows {
		out = append(out, RawSale{
			TransactionID:   h.get(rec, "transaction_id"),
			CustomerID:      h.get(rec, "customer_id"),
			ProductID:       h.get(rec, "product_id"),
			Quantity:        h.get(rec, "quantity"),
			UnitPrice:       h.get(rec, "unit_price"),
			Status:          h.get(rec, "status"),
			TransactionDate: h.get(rec, "transaction_date"),
		})
	}
	return out, nil
}
