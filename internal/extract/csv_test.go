package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCustomersByHeaderName(t *testing.T) {
	// Columns deliberately reordered, one extra column appended.
	path := writeCSV(t, "customers.csv",
		"email,customer_id,first_name,last_name,phone,city,registration_date,ignored\n"+
			"a@x.com,C1,Asha,Rao,9876543210,Delhi,2024-01-15,junk\n"+
			"b@x.com,C2,Vik,Mehta,,,\n")

	out, err := ReadCustomers(path)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "C1", out[0].CustomerID)
	assert.Equal(t, "a@x.com", out[0].Email)
	assert.Equal(t, "2024-01-15", out[0].RegistrationDate)
	assert.Equal(t, "", out[1].Phone)
}

func TestReadProductsMissingHeaderFails(t *testing.T) {
	path := writeCSV(t, "products.csv",
		"product_id,product_name,category,price\n"+ // stock_quantity absent
			"P1,Laptop,electronics,999\n")

	_, err := ReadProducts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock_quantity")
}

func TestReadSalesShortRecords(t *testing.T) {
	// Ragged rows yield empty strings, not errors.
	path := writeCSV(t, "sales.csv",
		"transaction_id,customer_id,product_id,quantity,unit_price,status,transaction_date\n"+
			"T1,C1,P1,2,10.5,Completed,2024-01-15\n"+
			"T2,C1\n")

	out, err := ReadSales(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "T2", out[1].TransactionID)
	assert.Equal(t, "", out[1].ProductID)
}

func TestReadCustomersMissingFile(t *testing.T) {
	_, err := ReadCustomers(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
