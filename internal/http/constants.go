package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	// Public pages.
	PageLogin    = "login"
	PageRegister = "register"

	// Signed-in pages.
	PageDashboard   = "dashboard"
	PageProfile     = "profile"
	PageRequests    = "requests"
	PageRequest     = "request"
	PageRequestForm = "request-form"

	// Stock movements.
	PageTransactions    = "transactions"
	PageTransaction     = "transaction"
	PageTransactionForm = "transaction-form"

	// Catalogue administration.
	PageProducts           = "products"
	PageProductForm        = "product-form"
	PageProductsByCategory = "products-by-category"
	PageCategories         = "categories"
	PageSuppliers          = "suppliers"
	PageSupplierForm       = "supplier-form"

	PageError = "error"
)

const (
	// listPageSize is how many rows a list view shows per page.
	listPageSize = 10
	// dashboardYears is how many years the dashboard year selector offers.
	dashboardYears = 5
)

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
// Using a dedicated type improves compile-time checks and prevents typos.
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageLogin:              "login-content",
	PageRegister:           "register-content",
	PageDashboard:          "dashboard-content",
	PageProfile:            "profile-content",
	PageRequests:           "requests-content",
	PageRequest:            "request-content",
	PageRequestForm:        "request-form-content",
	PageTransactions:       "transactions-content",
	PageTransaction:        "transaction-content",
	PageTransactionForm:    "transaction-form-content",
	PageProducts:           "products-content",
	PageProductForm:        "product-form-content",
	PageProductsByCategory: "products-by-category-content",
	PageCategories:         "categories-content",
	PageSuppliers:          "suppliers-content",
	PageSupplierForm:       "supplier-form-content",
	PageError:              "error-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to the error page for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "error-content"
}
