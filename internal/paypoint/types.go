package paypoint

// Status enumerates transaction states reported by the PayPoint hosted API.
type Status string

const (
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
	StatusPending   Status = "PENDING"
	StatusDeclined  Status = "DECLINED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// FormatRESTJSON is the only notification format this integration requests.
const FormatRESTJSON = "REST_JSON"

// SessionRequest is the payload posted to the hosted sessions endpoint.
type SessionRequest struct {
	Locale      string      `json:"locale"`
	Customer    Customer    `json:"customer"`
	Transaction Transaction `json:"transaction"`
	Session     Session     `json:"session"`
}

// Customer carries the minimal shopper information the hosted page needs.
type Customer struct {
	Registered bool `json:"registered"`
}

// Transaction describes the payment being registered.
type Transaction struct {
	MerchantReference string `json:"merchantReference"`
	Money             Money  `json:"money"`
	Description       string `json:"description"`
}

// Money pairs a currency code with a fixed amount.
type Money struct {
	Currency string `json:"currency"`
	Amount   Amount `json:"amount"`
}

// Amount holds the order total rounded to two decimal places.
type Amount struct {
	Fixed float64 `json:"fixed"`
}

// Session holds the URLs the hosted page returns the shopper (and the
// server-to-server notification) to.
type Session struct {
	ReturnURL               URL          `json:"returnUrl"`
	CancelURL               URL          `json:"cancelUrl"`
	TransactionNotification Notification `json:"transactionNotification"`
}

// URL wraps a bare URL the way the hosted API expects it.
type URL struct {
	URL string `json:"url"`
}

// Notification configures the asynchronous transaction notification.
type Notification struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

// SessionResponse is returned by the sessions endpoint, including on non-2xx
// statuses where the gateway still sends a structured body.
type SessionResponse struct {
	Status        Status `json:"status"`
	RedirectURL   string `json:"redirectUrl"`
	ReasonCode    string `json:"reasonCode"`
	ReasonMessage string `json:"reasonMessage"`
}

// Callback is the asynchronous notification the gateway posts after the
// shopper completes (or abandons) payment on the hosted page.
type Callback struct {
	Transaction CallbackTransaction `json:"transaction"`
}

// CallbackTransaction reports the outcome of a hosted transaction.
type CallbackTransaction struct {
	Status        Status `json:"status"`
	MerchantRef   string `json:"merchantRef"`
	TransactionID string `json:"transactionId"`
}
