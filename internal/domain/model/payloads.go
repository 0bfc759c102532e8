package model

import "time"

// Response is the envelope every backend endpoint answers with. Only the
// fields relevant to the called operation are populated.
type Response struct {
	Status         int           `json:"status"`
	Message        string        `json:"message,omitempty"`
	Token          string        `json:"token,omitempty"`
	Role           string        `json:"role,omitempty"`
	ExpirationTime string        `json:"expirationTime,omitempty"`
	User           *User         `json:"user,omitempty"`
	Users          []User        `json:"users,omitempty"`
	Product        *Product      `json:"product,omitempty"`
	Products       []Product     `json:"products,omitempty"`
	Category       *Category     `json:"category,omitempty"`
	Categories     []Category    `json:"categories,omitempty"`
	Supplier       *Supplier     `json:"supplier,omitempty"`
	Suppliers      []Supplier    `json:"suppliers,omitempty"`
	Transaction    *Transaction  `json:"transaction,omitempty"`
	Transactions   []Transaction `json:"transactions,omitempty"`
	Request        *Request      `json:"request,omitempty"`
	Requests       []Request     `json:"requests,omitempty"`
	Timestamp      LocalTime     `json:"timestamp,omitzero"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Email       string `json:"email"       validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password"    validate:"required"`
}

// UserUpdate is the body of PUT /users/update/{id}.
type UserUpdate struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password,omitempty"`
	Role        string `json:"role,omitempty"`
}

// TransactionRequest is the body of the purchase, sell and return endpoints.
// Only the identifiers relevant to the movement are sent.
type TransactionRequest struct {
	ProductID   int64  `json:"productId"            validate:"required,gt=0"`
	Quantity    int    `json:"quantity"             validate:"required,gt=0"`
	SupplierID  int64  `json:"supplierId,omitempty"`
	Description string `json:"description,omitempty"`
	Note        string `json:"note,omitempty"`
}

// StockRequest is the body of POST /requests/add.
type StockRequest struct {
	ProductID   int64  `json:"productId"             validate:"required,gt=0"`
	Quantity    int    `json:"quantity"              validate:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// ProductForm carries the fields of a multipart product create or update.
// ProductID is set only for updates.
type ProductForm struct {
	ProductID     int64
	Name          string `form:"name"          validate:"required"`
	SKU           string `form:"sku"           validate:"required"`
	Price         string `form:"price"         validate:"required,numeric"`
	StockQuantity string `form:"stockQuantity" validate:"required,number"`
	CategoryID    string `form:"categoryId"    validate:"required,number"`
	Description   string `form:"description"`
	Image         *Upload
}

// Upload is an image attached to a product form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DailyPoint aggregates the transactions recorded on one day of a month.
type DailyPoint struct {
	Day      int     `json:"day"`
	Count    int     `json:"count"`
	Amount   float64 `json:"amount"`
	Quantity int     `json:"quantity"`
}

// DailySeries buckets transactions created in the given month into one point
// per calendar day, including days without activity.
func DailySeries(txs []Transaction, year int, month time.Month) []DailyPoint {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	points := make([]DailyPoint, days)
	for i := range points {
		points[i].Day = i + 1
	}
	for _, tx := range txs {
		at := tx.CreatedAt.Time()
		if at.IsZero() || at.Year() != year || at.Month() != month {
			continue
		}
		p := &points[at.Day()-1]
		p.Count++
		p.Amount += tx.TotalPrice
		p.Quantity += tx.TotalProducts
	}
	return points
}
