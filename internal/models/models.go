package models

// IPInfo describes a public IP address and its approximate geolocation
// Only IP is guaranteed. Optional fields are nil when the provider omitted them.
type IPInfo struct {
	IP        string   `json:"ip"`
	Network   *string  `json:"network,omitempty"`
	Version   *string  `json:"version,omitempty"`
	City      *string  `json:"city,omitempty"`
	Region    *string  `json:"region,omitempty"`
	Country   *string  `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Result is the outcome of one lookup: Success, ProviderError,
// ValidationError or TransportError
type Result interface {
	isResult()
}

// Success carries the validated IPInfo
type Success struct {
	Info   IPInfo
	Cached bool // true when served from the result cache
}

// ProviderError is reported by the provider itself, e.g. rate limiting
type ProviderError struct {
	Message string
	Reason  string
	Status  int
}

// ValidationError means the provider body did not have the expected shape
type ValidationError struct {
	Message string
	Reason  string
	Status  int
}

// TransportError means no usable body was received (network failure,
// unreadable or non-JSON body)
type TransportError struct {
	Err error
}

// RateLimited means the invocation was refused locally before any provider call
type RateLimited struct {
	Message string
}

func (Success) isResult()         {}
func (ProviderError) isResult()   {}
func (ValidationError) isResult() {}
func (TransportError) isResult()  {}
func (RateLimited) isResult()     {}

// Outcome returns a short label for logs and metrics
func Outcome(r Result) string {
	switch r.(type) {
	case Success:
		return "success"
	case ProviderError:
		return "provider_error"
	case ValidationError:
		return "validation_error"
	case TransportError:
		return "transport_error"
	case RateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f
func Float64Ptr(f float64) *float64 { return &f }
