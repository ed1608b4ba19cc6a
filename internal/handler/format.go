package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/evyataryagoni/publicip-mcp/internal/models"
)

const (
	// FailureSentence opens every failure reply
	FailureSentence = "Failed to fetch public IP information."

	// Undefined stands in for an optional field the provider did not send
	Undefined = "undefined"

	transportMessage = "provider request failed"
)

// Render turns a lookup result into reply text
// isError is true for every variant except Success.
func Render(r models.Result) (text string, isError bool) {
	switch v := r.(type) {
	case models.Success:
		return FormatInfo(v.Info), false
	case models.ProviderError:
		return FormatFailure(v.Status, v.Message, v.Reason), true
	case models.ValidationError:
		return FormatFailure(v.Status, v.Message, v.Reason), true
	case models.TransportError:
		details := ""
		if v.Err != nil {
			details = v.Err.Error()
		}
		return FormatFailure(0, transportMessage, details), true
	case models.RateLimited:
		return FormatFailure(0, v.Message, ""), true
	default:
		return FailureSentence, true
	}
}

// FormatInfo renders the eight "Field: value" lines in fixed order
func FormatInfo(info models.IPInfo) string {
	lines := []string{
		"IP: " + info.IP,
		"Network: " + str(info.Network),
		"Version: " + str(info.Version),
		"City: " + str(info.City),
		"Region: " + str(info.Region),
		"Country: " + str(info.Country),
		"Latitude: " + num(info.Latitude),
		"Longitude: " + num(info.Longitude),
	}
	return strings.Join(lines, "\n")
}

// FormatFailure renders the failure sentence followed by whatever is known
// status 0 means no HTTP status was received
func FormatFailure(status int, message, reason string) string {
	var b strings.Builder
	b.WriteString(FailureSentence)
	if status != 0 {
		b.WriteString("\nHTTP status: ")
		b.WriteString(strconv.Itoa(status))
	}
	if message != "" {
		b.WriteString("\nReason: ")
		b.WriteString(message)
	}
	if reason != "" {
		b.WriteString("\nDetails: ")
		b.WriteString(reason)
	}
	return b.String()
}

func str(s *string) string {
	if s == nil {
		return Undefined
	}
	return *s
}

// num prints the shortest representation, 37.751 not 37.751000
// Very small or very large magnitudes use exponent form, 1e-7 and 1e+21,
// the way the provider's own clients print numbers.
func num(f *float64) string {
	if f == nil {
		return Undefined
	}
	abs := math.Abs(*f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(*f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
