package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/target/ims-ui/internal/domain/model"
)

const errNameRequired = "Name is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		value   string
		wantErr string
	}{
		{name: "valid input", maxLen: 10, value: "valid"},
		{name: "empty string", maxLen: 10, value: "", wantErr: errNameRequired},
		{name: "whitespace only", maxLen: 10, value: "   ", wantErr: errNameRequired},
		{name: "exceeds max length", maxLen: 5, value: "toolong", wantErr: "Name cannot exceed 5 characters."},
		{name: "exactly max length", maxLen: 5, value: "exact"},
		{name: "unicode counted by rune", maxLen: 3, value: "äöü"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, Required("Name", tt.maxLen)(tt.value))
		})
	}
}

func TestPositiveInt(t *testing.T) {
	v := PositiveInt("Quantity")
	assert.Empty(t, v("3"))
	assert.Empty(t, v(" 12 "))
	assert.Equal(t, "Quantity must be a number.", v("three"))
	assert.Equal(t, "Quantity must be a number.", v(""))
	assert.Equal(t, "Quantity must be greater than zero.", v("0"))
	assert.Equal(t, "Quantity must be greater than zero.", v("-2"))
}

func TestOneOfAndDate(t *testing.T) {
	status := OneOf("Status", []string{"PENDING", "COMPLETED"})
	assert.Empty(t, status("completed"))
	assert.Equal(t, "Status must be one of: PENDING, COMPLETED", status("SHIPPED"))

	date := Date("Start date")
	assert.Empty(t, date(""))
	assert.Empty(t, date("2024-02-29"))
	assert.Equal(t, "Start date must be a date (YYYY-MM-DD).", date("29/02/2024"))

	assert.Empty(t, Optional("Note", 3)("abc"))
	assert.NotEmpty(t, Optional("Note", 3)("abcd"))
}

func TestFieldValidator_Struct(t *testing.T) {
	errs := New().Struct(model.LoginRequest{Email: "not-an-email"}).Errors()
	assert.Equal(t, map[string]string{
		"email":    "Enter a valid email address.",
		"password": "Password is required.",
	}, errs)

	errs = New().Struct(model.ProductForm{Name: "Widget", SKU: "W-1", Price: "abc", CategoryID: "2"}).Errors()
	assert.Equal(t, "Price must be a number.", errs["price"])
	assert.Equal(t, "Stock quantity is required.", errs["stockQuantity"])
	assert.NotContains(t, errs, "name")

	errs = New().Struct(model.TransactionRequest{ProductID: 1, Quantity: -1}).Errors()
	assert.Equal(t, map[string]string{"quantity": "Quantity must be greater than 0."}, errs)

	assert.True(t, New().Struct(model.LoginRequest{Email: "a@b.co", Password: "x"}).Valid())
}

func TestFieldValidator_FirstErrorWins(t *testing.T) {
	fv := New().
		Validate("email", "", Required("Email", 10)).
		Struct(model.LoginRequest{Password: "x"})
	assert.Equal(t, "Email is required.", fv.Errors()["email"])
	assert.False(t, fv.Valid())
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Stock quantity", humanize("stockQuantity"))
	assert.Equal(t, "Category id", humanize("categoryId"))
	assert.Equal(t, "Value", humanize(""))
}
