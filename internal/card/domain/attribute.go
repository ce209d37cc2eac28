// Package domain defines the credit-card attribute model, the encrypted wire format and
// the secure-store packing used to persist card data.
package domain

import (
	"maps"
	"strconv"
	"strings"
)

// Attribute identifies a single credit-card or billing field.
//
// The numeric values are stable and may be persisted by collaborators (for example as
// column identifiers), so existing constants must never be renumbered.
type Attribute int

const (
	// Number is the primary account number printed on the card.
	Number Attribute = 1
	// ExpireMonth is the expiration month (1-12).
	ExpireMonth Attribute = 2
	// ExpireYear is the four-digit expiration year.
	ExpireYear Attribute = 3
	// CCV is the numeric security code. It is held in memory but never emitted for storage
	// by the record sealer.
	CCV Attribute = 4
	// FirstName is the cardholder first name.
	FirstName Attribute = 5
	// LastName is the cardholder last name.
	LastName Attribute = 6
	// Address is the billing street address.
	Address Attribute = 7
	// City is the billing city.
	City Attribute = 8
	// State is the billing state or province.
	State Attribute = 9
	// PostalCode is the billing postal code.
	PostalCode Attribute = 10
	// Country is the billing country.
	Country Attribute = 11
	// Phone is the billing phone number.
	Phone Attribute = 12
	// Type is the card brand (Visa, Mastercard, ...).
	Type Attribute = 13

	// SecureStore is a synthetic attribute: the card number and expiration date packed
	// into a single encrypted value, which saves storage columns.
	SecureStore Attribute = 14
)

// IsEncryptedAtRest reports whether the attribute is encrypted in its storage-ready form.
func (a Attribute) IsEncryptedAtRest() bool {
	switch a {
	case Number, ExpireMonth, ExpireYear:
		return true
	default:
		return false
	}
}

// IsNumericOnly reports whether plain-text values of the attribute are normalized to digits.
func (a Attribute) IsNumericOnly() bool {
	switch a {
	case Number, ExpireMonth, ExpireYear, CCV:
		return true
	default:
		return false
	}
}

// String returns the default label of the attribute, or its numeric identifier when the
// attribute has no default label.
func (a Attribute) String() string {
	if label, ok := defaultLabels[a]; ok {
		return label
	}
	return strconv.Itoa(int(a))
}

var defaultLabels = map[Attribute]string{
	Number:      "card_number",
	SecureStore: "secure_store",
	ExpireMonth: "expire_month",
	ExpireYear:  "expire_year",
	CCV:         "card_ccv",
	Type:        "card_type",
	FirstName:   "first_name",
	LastName:    "last_name",
	Address:     "address",
	City:        "city",
	State:       "state",
	PostalCode:  "postal_code",
	Country:     "country",
	Phone:       "phone",
}

// Labels is a bidirectional table between attributes and their text labels.
//
// A label resolves case-insensitively either as written ("card_number") or in its
// camel-case form ("cardNumber"). Adapters that need extra attributes build their own
// table with Merge instead of extending the store.
type Labels struct {
	byAttr  map[Attribute]string
	byLabel map[string]Attribute
}

// DefaultLabels returns the label table for the built-in attributes.
func DefaultLabels() Labels {
	return NewLabels(defaultLabels)
}

// NewLabels builds a label table from an attribute to label mapping.
func NewLabels(m map[Attribute]string) Labels {
	l := Labels{
		byAttr:  make(map[Attribute]string, len(m)),
		byLabel: make(map[string]Attribute, len(m)*2),
	}
	for attr, label := range m {
		l.add(attr, label)
	}
	return l
}

func (l *Labels) add(attr Attribute, label string) {
	if old, ok := l.byAttr[attr]; ok {
		delete(l.byLabel, strings.ToLower(old))
		delete(l.byLabel, strings.ToLower(camelCase(old)))
	}
	l.byAttr[attr] = label
	l.byLabel[strings.ToLower(label)] = attr
	l.byLabel[strings.ToLower(camelCase(label))] = attr
}

// Merge returns a new table holding l's entries overridden by extra.
func (l Labels) Merge(extra map[Attribute]string) Labels {
	merged := NewLabels(l.byAttr)
	for attr, label := range extra {
		merged.add(attr, label)
	}
	return merged
}

// Label returns the label of attr.
func (l Labels) Label(attr Attribute) (string, bool) {
	label, ok := l.byAttr[attr]
	return label, ok
}

// Map returns a copy of the attribute to label mapping.
func (l Labels) Map() map[Attribute]string {
	return maps.Clone(l.byAttr)
}

// Resolve maps a reference to an attribute.
//
// A reference made only of digits is taken as a numeric identifier and is accepted even
// when the table has no label for it; such attributes are stored verbatim. Any other
// reference must match a label, otherwise ErrUnknownAttribute is returned.
func (l Labels) Resolve(ref string) (Attribute, error) {
	if ref != "" && isDigits(ref) {
		n, err := strconv.Atoi(ref)
		if err != nil {
			return 0, ErrUnknownAttribute
		}
		return Attribute(n), nil
	}
	if attr, ok := l.byLabel[strings.ToLower(ref)]; ok {
		return attr, nil
	}
	return 0, ErrUnknownAttribute
}

// camelCase turns "postal_code" into "postalCode".
func camelCase(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	upper := false
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c == '_' && i+1 < len(label) && label[i+1] >= 'a' && label[i+1] <= 'z' {
			upper = true
			continue
		}
		if upper {
			c -= 'a' - 'A'
			upper = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
