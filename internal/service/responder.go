package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/evyataryagoni/publicip-mcp/internal/models"
	"github.com/go-playground/validator/v10"
)

const (
	// MessageParseFailed is the fixed message of every ValidationError
	MessageParseFailed = "IP info parsing failed"

	// MessageUnknownError is used when the provider flags an error without a message
	MessageUnknownError = "unknown error"
)

// ipapiPayload is the expected shape of a successful ipapi.co answer
// Pointers distinguish an absent member from a present one.
type ipapiPayload struct {
	IP        *string  `json:"ip" validate:"required"`
	Network   *string  `json:"network"`
	Version   *string  `json:"version"`
	City      *string  `json:"city"`
	Region    *string  `json:"region"`
	Country   *string  `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// payloadMember binds one exact JSON member name to its typed destination
type payloadMember struct {
	name   string
	expect string // "string" or "number", as reported in diagnostics
	dst    any
}

func (p *ipapiPayload) members() []payloadMember {
	return []payloadMember{
		{"ip", "string", &p.IP},
		{"network", "string", &p.Network},
		{"version", "string", &p.Version},
		{"city", "string", &p.City},
		{"region", "string", &p.Region},
		{"country", "string", &p.Country},
		{"latitude", "number", &p.Latitude},
		{"longitude", "number", &p.Longitude},
	}
}

// decodeMembers fills payload from the exact member names only
// A present member must hold its declared type; null is not accepted.
// Absent members are left nil for the validator to judge.
func decodeMembers(members map[string]json.RawMessage, payload *ipapiPayload) []string {
	var issues []string
	for _, m := range payload.members() {
		raw, ok := members[m.name]
		if !ok {
			continue
		}
		kind := jsonKind(raw)
		if kind != m.expect {
			issues = append(issues, fmt.Sprintf("%s: expected %s, received %s", m.name, m.expect, kind))
			continue
		}
		if err := json.Unmarshal(raw, m.dst); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", m.name, err))
		}
	}
	return issues
}

// newPayloadValidator reports field errors by JSON member name
func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode maps a provider body onto exactly one Result variant
//
// Order matters: the error indicator is checked before the shape, so a
// rate-limit document is a ProviderError even though it has no ip.
func (s *IPService) decode(status int, body json.RawMessage) models.Result {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil || members == nil {
		return models.ValidationError{
			Message: MessageParseFailed,
			Reason:  "expected a JSON object, received " + jsonKind(body),
			Status:  status,
		}
	}

	if truthy(members["error"]) {
		message := text(members["message"])
		if message == "" {
			message = MessageUnknownError
		}
		return models.ProviderError{
			Message: message,
			Reason:  text(members["reason"]),
			Status:  status,
		}
	}

	var payload ipapiPayload
	issues := decodeMembers(members, &payload)
	// An ip of the wrong type was already reported, skip "ip: required"
	if _, sent := members["ip"]; !sent || payload.IP != nil {
		if err := s.validator.Struct(payload); err != nil {
			issues = append(issues, describeValidationError(err))
		}
	}
	if len(issues) > 0 {
		return models.ValidationError{
			Message: MessageParseFailed,
			Reason:  strings.Join(issues, "; "),
			Status:  status,
		}
	}

	return models.Success{Info: models.IPInfo{
		IP:        *payload.IP,
		Network:   payload.Network,
		Version:   payload.Version,
		City:      payload.City,
		Region:    payload.Region,
		Country:   payload.Country,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	}}
}

// truthy follows JavaScript truthiness, which is what the provider's
// "error" flag is documented against: false, null, 0 and "" are falsy.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// text returns a JSON string member as-is and any other truthy member as JSON text
func text(raw json.RawMessage) string {
	if !truthy(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func jsonKind(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "invalid JSON"
	}
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return "object"
	}
}

func describeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			parts = append(parts, fe.Field()+": required")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
