// Package validation implements the order-intake field validator: a pure
// function layer that checks and normalizes every inbound field of an order
// submission against a typed schema before anything touches shared state or
// storage.
//
// Validation is fail-fast: rules run in a fixed order and the first failing
// field wins. Which field is reported for a multi-invalid payload is an
// observable contract that clients and tests rely on, so the rule order in
// Validate must not be reshuffled casually.
//
// Security-sensitive rules:
//   - Address is scanned for markup/script-injection signatures to block
//     stored-XSS through the only long free-text field.
//   - Prices are checked for NaN/Infinity/negative values injected by
//     malformed client code.
//   - Metadata accepts string values only, which keeps storage and later
//     display free of type ambiguity.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/naijamart/go-order-backend/internal/domain"
)

// Field length bounds. These mirror the column sizes in domain.Order.
const (
	minNameLen     = 2
	maxNameLen     = 100
	minAddressLen  = 10
	maxAddressLen  = 500
	maxProductLen  = 200
	maxDiscountLen = 50
	maxQuantity    = 100

	maxMetaRecipientLen    = 100
	maxMetaRelationshipLen = 50
	maxMetaMessageLen      = 500
	maxMetaOccasionLen     = 100
	maxMetaExtraLen        = 500
)

// Stock status values accepted on submission.
const (
	StockInStock    = "in-stock"
	StockOutOfStock = "out-of-stock"
)

var (
	// nameRE allows letters, spaces, hyphens, and apostrophes.
	nameRE = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

	// phoneRE matches Nigerian mobile numbers after spaces and dashes are
	// stripped: an optional +234/234/0 prefix followed by a 70/71/80/81/90/91
	// network code and eight digits.
	phoneRE = regexp.MustCompile(`^(\+?234|0)?[789][01]\d{8}$`)

	// emailRE is a pragmatic email shape check, not an RFC 5322 parser.
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// productNameRE allows alphanumerics, spaces, hyphens, and parentheses.
	productNameRE = regexp.MustCompile(`^[a-zA-Z0-9\s\-()]+$`)

	// injectionRE flags markup/script signatures in free text.
	injectionRE = regexp.MustCompile(`(?i)<script|javascript:|onerror=`)
)

// NigerianStates is the closed enumeration of delivery states. Matching is
// case-exact; "lagos" is not a state.
var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa",
	"Benue", "Borno", "Cross River", "Delta", "Ebonyi", "Edo",
	"Ekiti", "Enugu", "FCT", "Gombe", "Imo", "Jigawa", "Kaduna",
	"Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa",
	"Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers",
	"Sokoto", "Taraba", "Yobe", "Zamfara",
}

// Colors is the closed color enumeration, a superset across every product
// variant that submits through this pipeline.
var Colors = []string{
	"Navy Blue",
	"Classic Black",
	"Pure White",
	"Teal",
	"Blue White",
	"Black Gold",
	"Silver Black",
	"Gold Black",
	"Black",
}

var (
	stateSet = toSet(NigerianStates)
	colorSet = toSet(Colors)
)

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

// Error is a structured validation failure identifying the first invalid
// field and a human-readable reason. It is safe to show to clients.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface as "<field>: <reason>".
func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

func fail(field, msg string) *Error {
	return &Error{Field: field, Message: msg}
}

// OrderInput is the untyped inbound submission as decoded from the request
// body. Numeric fields use float64 so malformed values survive decoding long
// enough to be rejected with a field-specific message; Metadata uses
// map[string]any for the same reason.
type OrderInput struct {
	FullName       string         `json:"full_name"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	State          string         `json:"state"`
	Address        string         `json:"address"`
	ProductName    string         `json:"product_name"`
	Color          string         `json:"color"`
	Quantity       float64        `json:"quantity"`
	Price          float64        `json:"price"`
	TotalPrice     float64        `json:"total_price"`
	Discount       string         `json:"discount"`
	DiscountAmount *float64       `json:"discount_amount"`
	Metadata       map[string]any `json:"metadata"`
	StockStatus    string         `json:"stockStatus"`
}

// NormalizePhone strips spaces and dashes from a phone number. The result is
// what the Nigerian mobile shape is matched against; the stored order keeps
// the number as submitted.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, phone)
}

// Validate checks every field of in against the order schema, first failure
// wins. On success it returns a fully typed domain.Order payload (without an
// ID; that is assigned by the writer) with Status derived from the stock
// flag. On failure it returns a *Error naming the offending field.
//
// Validate is pure: it touches no external state and never mutates in.
func Validate(in OrderInput) (*domain.Order, *Error) {
	// 1. Name
	if n := len(in.FullName); n < minNameLen {
		return nil, fail("full_name", "Name must be at least 2 characters")
	} else if n > maxNameLen {
		return nil, fail("full_name", "Name must be less than 100 characters")
	}
	if !nameRE.MatchString(in.FullName) {
		return nil, fail("full_name", "Name can only contain letters, spaces, hyphens, and apostrophes")
	}

	// 2. Phone
	if !phoneRE.MatchString(NormalizePhone(in.Phone)) {
		return nil, fail("phone", "Invalid Nigerian phone number. Use format: +234... or 0...")
	}

	// 3. Email (optional; empty string means absent, not invalid)
	var email *string
	if v := strings.TrimSpace(in.Email); v != "" {
		if !emailRE.MatchString(v) {
			return nil, fail("email", "Invalid email address")
		}
		email = &v
	}

	// 4. State (case-exact membership)
	if _, ok := stateSet[in.State]; !ok {
		return nil, fail("state", "State must be a valid Nigerian state")
	}

	// 5. Address (length bounds + injection signatures)
	if n := len(in.Address); n < minAddressLen {
		return nil, fail("address", "Address must be at least 10 characters")
	} else if n > maxAddressLen {
		return nil, fail("address", "Address must be less than 500 characters")
	}
	if injectionRE.MatchString(in.Address) {
		return nil, fail("address", "Address contains invalid characters")
	}

	// 6. Product name
	if in.ProductName == "" {
		return nil, fail("product_name", "Product name is required")
	}
	if len(in.ProductName) > maxProductLen {
		return nil, fail("product_name", "Product name is too long")
	}
	if !productNameRE.MatchString(in.ProductName) {
		return nil, fail("product_name", "Product name contains invalid characters")
	}

	// 7. Color
	if _, ok := colorSet[in.Color]; !ok {
		return nil, fail("color", "Color must be one of the available options")
	}

	// 8. Quantity
	if in.Quantity != math.Trunc(in.Quantity) || math.IsNaN(in.Quantity) {
		return nil, fail("quantity", "Quantity must be a whole number")
	}
	if in.Quantity < 1 {
		return nil, fail("quantity", "Quantity must be at least 1")
	}
	if in.Quantity > maxQuantity {
		return nil, fail("quantity", "Maximum quantity is 100")
	}

	// 9. Prices (positive finite)
	if err := checkPrice("price", in.Price); err != nil {
		return nil, err
	}
	if err := checkPrice("total_price", in.TotalPrice); err != nil {
		return nil, err
	}

	// 10. Discount label and amount
	var discount *string
	if v := strings.TrimSpace(in.Discount); v != "" {
		if len(v) > maxDiscountLen {
			return nil, fail("discount", "Discount label must be less than 50 characters")
		}
		discount = &v
	}
	if in.DiscountAmount != nil {
		d := *in.DiscountAmount
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, fail("discount_amount", "Discount amount must be a non-negative number")
		}
	}

	// 11. Metadata
	meta, verr := validateMetadata(in.Metadata)
	if verr != nil {
		return nil, verr
	}

	// 12. Stock-status flag
	status := domain.StatusPending
	switch in.StockStatus {
	case "", StockInStock:
	case StockOutOfStock:
		status = domain.StatusOutOfStock
	default:
		return nil, fail("stockStatus", "Stock status must be 'in-stock' or 'out-of-stock'")
	}

	return &domain.Order{
		FullName:       in.FullName,
		Phone:          in.Phone,
		Email:          email,
		State:          in.State,
		Address:        in.Address,
		ProductName:    in.ProductName,
		Color:          in.Color,
		Quantity:       int(in.Quantity),
		Price:          in.Price,
		TotalPrice:     in.TotalPrice,
		Discount:       discount,
		DiscountAmount: in.DiscountAmount,
		Metadata:       meta,
		Status:         status,
	}, nil
}

// checkPrice rejects non-positive or non-finite monetary amounts.
func checkPrice(field string, v float64) *Error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fail(field, "Price must be a valid number")
	}
	if v <= 0 {
		return fail(field, "Price must be greater than 0")
	}
	return nil
}

// metaCaps bounds the recognized metadata keys; unrecognized keys fall back
// to maxMetaExtraLen.
var metaCaps = map[string]int{
	"gift_recipient":    maxMetaRecipientLen,
	"gift_relationship": maxMetaRelationshipLen,
	"gift_message":      maxMetaMessageLen,
	"occasion":          maxMetaOccasionLen,
	"delivery_date":     maxMetaExtraLen,
}

// validateMetadata accepts only string-valued entries and enforces per-key
// length caps. A nil or empty map yields nil metadata.
func validateMetadata(raw map[string]any) (domain.Metadata, *Error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(domain.Metadata, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fail("metadata."+k, "Metadata values must be strings")
		}
		limit := maxMetaExtraLen
		if c, known := metaCaps[k]; known {
			limit = c
		}
		if len(s) > limit {
			return nil, fail("metadata."+k, fmt.Sprintf("Value must be at most %d characters", limit))
		}
		out[k] = s
	}
	return out, nil
}

// SanitizeHTML entity-escapes characters that would be interpreted as markup
// when a stored field is rendered in an HTML context. The validator already
// rejects script signatures in addresses; this helper is for display paths
// that echo arbitrary stored text (e.g., gift messages).
func SanitizeHTML(input string) string {
	r := strings.NewReplacer(
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
	return r.Replace(input)
}
