package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTime_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Time
		zero bool
	}{
		{name: "zone-less with fraction", in: `"2024-03-05T10:20:30.123"`, want: time.Date(2024, 3, 5, 10, 20, 30, 123000000, time.UTC)},
		{name: "zone-less", in: `"2024-03-05T10:20:30"`, want: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{name: "rfc3339", in: `"2024-03-05T10:20:30Z"`, want: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{name: "date only", in: `"2024-03-05"`, want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "null", in: `null`, zero: true},
		{name: "empty", in: `""`, zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var lt LocalTime
			require.NoError(t, json.Unmarshal([]byte(tt.in), &lt))
			if tt.zero {
				assert.True(t, lt.IsZero())
				return
			}
			assert.True(t, tt.want.Equal(lt.Time()), "got %s", lt.Time())
		})
	}
}

func TestLocalTime_UnmarshalJSON_Invalid(t *testing.T) {
	var lt LocalTime
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &lt))
	require.Error(t, json.Unmarshal([]byte(`42`), &lt))
}

func TestResponse_DecodesBackendEnvelope(t *testing.T) {
	body := `{
		"status": 200,
		"message": "success",
		"transactions": [
			{"id": 7, "totalProducts": 3, "totalPrice": 29.97, "transactionType": "SALE",
			 "transactionStatus": "PENDING", "createdAt": "2024-03-05T10:20:30.5",
			 "product": {"id": 2, "name": "Widget", "sku": "W-1", "price": 9.99, "stockQuantity": 10}}
		]
	}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Transactions, 1)
	tx := resp.Transactions[0]
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, TransactionSale, tx.TransactionType)
	assert.Equal(t, TransactionPending, tx.TransactionStatus)
	require.NotNil(t, tx.Product)
	assert.Equal(t, "Widget", tx.Product.Name)
	assert.Equal(t, 5, tx.CreatedAt.Time().Day())
}

func TestDailySeries(t *testing.T) {
	at := func(s string) LocalTime {
		lt, err := ParseLocalTime(s)
		require.NoError(t, err)
		return lt
	}
	txs := []Transaction{
		{TotalPrice: 10, TotalProducts: 1, CreatedAt: at("2024-02-01T08:00:00")},
		{TotalPrice: 5.5, TotalProducts: 2, CreatedAt: at("2024-02-01T18:00:00")},
		{TotalPrice: 100, TotalProducts: 4, CreatedAt: at("2024-02-29T23:59:59")},
		{TotalPrice: 1, TotalProducts: 1, CreatedAt: at("2024-03-01T00:00:00")},
		{TotalPrice: 1, TotalProducts: 1, CreatedAt: at("2023-02-01T00:00:00")},
		{TotalPrice: 1, TotalProducts: 1},
	}

	series := DailySeries(txs, 2024, time.February)
	require.Len(t, series, 29)
	assert.Equal(t, DailyPoint{Day: 1, Count: 2, Amount: 15.5, Quantity: 3}, series[0])
	assert.Equal(t, DailyPoint{Day: 2}, series[1])
	assert.Equal(t, DailyPoint{Day: 29, Count: 1, Amount: 100, Quantity: 4}, series[28])

	assert.Len(t, DailySeries(nil, 2023, time.February), 28)
	assert.Len(t, DailySeries(nil, 2024, time.December), 31)
}
