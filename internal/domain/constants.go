package domain

const (
	DefaultAPIBaseURL        = "http://localhost:8080"
	DefaultAPIPrefix         = "/api"
	DefaultAPITimeoutSeconds = 30
	DefaultPage              = 0
	DefaultPageSize          = 40
	DefaultHomePageSize      = 60
	DefaultCatalogMode       = CatalogModeRemote
	DefaultSearchDebounceMs  = 250
	DefaultLogLevel          = "info"
	DefaultMinPasswordLength = 8
	DefaultMinContactLength  = 10
	DefaultRejectReason      = "관리자에 의해 거절되었습니다."
	DefaultRequestFailedText = "Request failed"
	ProcessedAtLayout        = "2006-01-02 15:04"
)

// CatalogMode selects where the listing flow reads tools from.
type CatalogMode string

const (
	// CatalogModeRemote proxies every listing change to the backend.
	CatalogModeRemote CatalogMode = "remote"
	// CatalogModeStatic filters the built-in (or file-loaded) tool list locally.
	CatalogModeStatic CatalogMode = "static"
)

// Valid reports whether m is a known mode.
func (m CatalogMode) Valid() bool {
	return m == CatalogModeRemote || m == CatalogModeStatic
}
