// Package model defines the payloads exchanged with the inventory backend.
// The front end transports these values; it does not enforce business rules on them.
package model

// User is an account known to the backend.
type User struct {
	ID           int64         `json:"id,omitempty"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PhoneNumber  string        `json:"phoneNumber,omitempty"`
	Role         string        `json:"role,omitempty"`
	CreatedAt    LocalTime     `json:"createdAt,omitzero"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Requests     []Request     `json:"requests,omitempty"`
}

// Product is a stocked item.
type Product struct {
	ID            int64     `json:"id,omitempty"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CategoryID    int64     `json:"categoryId,omitempty"`
	CreatedAt     LocalTime `json:"createdAt,omitzero"`
}

// Category groups products.
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Supplier is a vendor products are purchased from and returned to.
type Supplier struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo,omitempty"`
	Address     string `json:"address,omitempty"`
}

// TransactionType classifies a stock movement.
type TransactionType string

const (
	TransactionPurchase         TransactionType = "PURCHASE"
	TransactionSale             TransactionType = "SALE"
	TransactionReturnToSupplier TransactionType = "RETURN_TO_SUPPLIER"
)

// TransactionStatus is the workflow state of a transaction.
type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "PENDING"
	TransactionProcessing TransactionStatus = "PROCESSING"
	TransactionCompleted  TransactionStatus = "COMPLETED"
	TransactionCancelled  TransactionStatus = "CANCELLED"
)

// TransactionStatuses lists the statuses a transaction may be moved to, in display order.
func TransactionStatuses() []TransactionStatus {
	return []TransactionStatus{TransactionPending, TransactionProcessing, TransactionCompleted, TransactionCancelled}
}

// Transaction is one recorded stock movement.
type Transaction struct {
	ID                int64             `json:"id"`
	TotalProducts     int               `json:"totalProducts"`
	TotalPrice        float64           `json:"totalPrice"`
	TransactionType   TransactionType   `json:"transactionType"`
	TransactionStatus TransactionStatus `json:"transactionStatus"`
	Description       string            `json:"description,omitempty"`
	Note              string            `json:"note,omitempty"`
	CreatedAt         LocalTime         `json:"createdAt,omitzero"`
	UpdatedAt         LocalTime         `json:"updatedAt,omitzero"`
	User              *User             `json:"user,omitempty"`
	Product           *Product          `json:"product,omitempty"`
	Supplier          *Supplier         `json:"supplier,omitempty"`
}

// RequestStatus is the approval state of a stock request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// RequestStatuses lists the statuses a request may be moved to, in display order.
func RequestStatuses() []RequestStatus {
	return []RequestStatus{RequestPending, RequestApproved, RequestRejected}
}

// Request is a stock request raised by a non-admin user.
type Request struct {
	ID            int64         `json:"id"`
	Description   string        `json:"description,omitempty"`
	RequestType   string        `json:"requestType,omitempty"`
	RequestStatus RequestStatus `json:"requestStatus"`
	TotalProducts int           `json:"totalProducts,omitempty"`
	TotalPrice    float64       `json:"totalPrice,omitempty"`
	CreatedAt     LocalTime     `json:"createdAt,omitzero"`
	UpdatedAt     LocalTime     `json:"updatedAt,omitzero"`
	User          *User         `json:"user,omitempty"`
	Product       *Product      `json:"product,omitempty"`
	Supplier      *Supplier     `json:"supplier,omitempty"`
}
