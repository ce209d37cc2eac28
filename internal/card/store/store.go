// Package store holds credit-card attribute values and dispatches reads and writes through
// the plain-text or encrypted path depending on the attribute and the caller's intent.
package store

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	validation "github.com/jellydator/validation"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	cardService "github.com/allisson/cardfreezer/internal/card/service"
	"github.com/allisson/cardfreezer/internal/errors"
	"github.com/allisson/cardfreezer/internal/metrics"
	appValidation "github.com/allisson/cardfreezer/internal/validation"
)

// KeyMode selects how ToMap names its keys.
type KeyMode int

const (
	// KeyByLabel keys entries by text label, falling back to the numeric identifier for
	// attributes without one.
	KeyByLabel KeyMode = iota
	// KeyByID keys entries by numeric identifier.
	KeyByID
)

// Store holds the attribute values of a single card.
//
// Values are always held in plain text. Number, expiration month and expiration year are
// encrypted only when their storage form is requested. A Store is owned by one caller and
// must not be used from several goroutines at once.
type Store struct {
	values map[cardDomain.Attribute]string
	order  []cardDomain.Attribute

	labels  cardDomain.Labels
	key     []byte
	alg     cardDomain.Algorithm
	random  io.Reader
	ciphers cardService.AEADManager
	metrics metrics.BusinessMetrics
	codec   cardService.Codec
}

// New creates a Store holding the given plain-text values.
func New(values map[cardDomain.Attribute]string, opts ...Option) (*Store, error) {
	s := &Store{
		values:  make(map[cardDomain.Attribute]string),
		labels:  cardDomain.DefaultLabels(),
		alg:     cardDomain.AESGCM,
		ciphers: cardService.NewAEADManager(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := cardDomain.ParseAlgorithm(string(s.alg)); err != nil {
		return nil, err
	}

	attrs := make([]cardDomain.Attribute, 0, len(values))
	for attr := range values {
		attrs = append(attrs, attr)
	}
	slices.Sort(attrs)
	for _, attr := range attrs {
		if err := s.Set(attr, values[attr], false); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SetPassKey replaces the pass key. Values already held are kept in plain text and are
// encrypted with the new key from now on.
func (s *Store) SetPassKey(raw []byte) *Store {
	if s.key != nil {
		cardDomain.Zero(s.key)
	}
	s.key = cardDomain.NormalizePassKey(raw)
	s.codec = nil
	return s
}

// PassKey returns a copy of the normalized pass key, resolving the default on first use.
func (s *Store) PassKey() []byte {
	if s.key == nil {
		s.key = cardDomain.DefaultPassKey()
	}
	return slices.Clone(s.key)
}

func (s *Store) getCodec() (cardService.Codec, error) {
	if s.codec != nil {
		return s.codec, nil
	}

	if s.key == nil {
		s.key = cardDomain.DefaultPassKey()
	}
	aead, err := s.ciphers.CreateCipher(s.key, s.alg, s.random)
	if err != nil {
		return nil, fmt.Errorf("failed to create field cipher: %w", err)
	}

	var codec cardService.Codec = cardService.NewFieldCodec(aead)
	if s.metrics != nil {
		codec = cardService.NewCodecWithMetrics(codec, s.metrics)
	}
	s.codec = codec
	return codec, nil
}

// Resolve maps a numeric identifier or text label to an attribute.
func (s *Store) Resolve(ref string) (cardDomain.Attribute, error) {
	return s.labels.Resolve(ref)
}

// Set stores value for attr.
//
// SecureStore values are always decrypted and unpacked into number, expiration month and
// expiration year, whatever fromStorage says. Numeric attributes are decrypted when
// fromStorage is true and stripped of non-digits otherwise. Anything else is stored
// verbatim.
func (s *Store) Set(attr cardDomain.Attribute, value string, fromStorage bool) error {
	switch {
	case attr == cardDomain.SecureStore:
		codec, err := s.getCodec()
		if err != nil {
			return err
		}
		month, year, number, err := codec.DecodeSecureStore(value)
		if err != nil {
			return err
		}
		s.put(cardDomain.ExpireMonth, month)
		s.put(cardDomain.ExpireYear, year)
		s.put(cardDomain.Number, number)

	case attr.IsNumericOnly():
		if !fromStorage {
			s.put(attr, cardDomain.Digits(value))
			return nil
		}
		codec, err := s.getCodec()
		if err != nil {
			return err
		}
		plain, err := codec.Decrypt(value)
		if err != nil {
			return errors.Wrapf(err, "failed to decrypt %s", s.labelOf(attr))
		}
		s.put(attr, plain)

	default:
		s.put(attr, value)
	}
	return nil
}

// SetByName resolves ref and stores value for the attribute it names.
func (s *Store) SetByName(ref, value string, fromStorage bool) error {
	attr, err := s.Resolve(ref)
	if err != nil {
		return errors.Wrapf(err, "attribute %q", ref)
	}
	return s.Set(attr, value, fromStorage)
}

func (s *Store) put(attr cardDomain.Attribute, value string) {
	if _, ok := s.values[attr]; !ok {
		s.order = append(s.order, attr)
	}
	s.values[attr] = value
}

// Lookup returns the plain-text value of attr.
func (s *Store) Lookup(attr cardDomain.Attribute) (string, bool) {
	v, ok := s.values[attr]
	return v, ok
}

// Get returns the value of attr, in storage form when forStorage is true. SecureStore is
// always returned in storage form. The boolean reports whether the attribute is set.
func (s *Store) Get(attr cardDomain.Attribute, forStorage bool) (string, bool, error) {
	if attr == cardDomain.SecureStore || forStorage {
		return s.StorageValue(attr)
	}
	v, ok := s.values[attr]
	return v, ok, nil
}

// GetByName resolves ref and returns the value of the attribute it names.
func (s *Store) GetByName(ref string, forStorage bool) (string, bool, error) {
	attr, err := s.Resolve(ref)
	if err != nil {
		return "", false, errors.Wrapf(err, "attribute %q", ref)
	}
	return s.Get(attr, forStorage)
}

// StorageValue returns the storage form of a single attribute: encrypted for number and
// expiration date, verbatim otherwise. For SecureStore it returns the packed value.
func (s *Store) StorageValue(attr cardDomain.Attribute) (string, bool, error) {
	if attr == cardDomain.SecureStore {
		v, err := s.SecureStore()
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}

	v, ok := s.values[attr]
	if !ok {
		return "", false, nil
	}
	if !attr.IsEncryptedAtRest() {
		return v, true, nil
	}

	codec, err := s.getCodec()
	if err != nil {
		return "", false, err
	}
	wire, err := codec.Encrypt(v)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to encrypt %s", s.labelOf(attr))
	}
	return wire, true, nil
}

// StorageMap returns the storage form of every held attribute, or only of attrs when any
// are given. Requested attributes that are not set are left out. Requesting SecureStore
// adds the packed value.
func (s *Store) StorageMap(attrs ...cardDomain.Attribute) (map[cardDomain.Attribute]string, error) {
	if len(attrs) == 0 {
		attrs = s.order
	}

	out := make(map[cardDomain.Attribute]string, len(attrs))
	for _, attr := range attrs {
		v, ok, err := s.StorageValue(attr)
		if err != nil {
			return nil, err
		}
		if ok {
			out[attr] = v
		}
	}
	return out, nil
}

// SecureStore returns number, expiration month and expiration year packed into a single
// encrypted value. All three must be set.
func (s *Store) SecureStore() (string, error) {
	month, okMonth := s.values[cardDomain.ExpireMonth]
	year, okYear := s.values[cardDomain.ExpireYear]
	number, okNumber := s.values[cardDomain.Number]
	if !okMonth || !okYear || !okNumber {
		return "", cardDomain.ErrSecureStoreIncomplete
	}

	codec, err := s.getCodec()
	if err != nil {
		return "", err
	}
	return codec.EncodeSecureStore(month, year, number)
}

// Values returns the values of attrs in order, or of every held attribute in the order
// they were first set when attrs is empty. Unset attributes yield nil at their position,
// so the result binds directly as positional query arguments.
func (s *Store) Values(attrs []cardDomain.Attribute, forStorage bool) ([]any, error) {
	if len(attrs) == 0 {
		attrs = s.order
	}

	out := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		if attr == cardDomain.SecureStore && !s.hasSecureStoreParts() {
			out = append(out, nil)
			continue
		}
		v, ok, err := s.Get(attr, forStorage)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) hasSecureStoreParts() bool {
	for _, attr := range []cardDomain.Attribute{cardDomain.Number, cardDomain.ExpireMonth, cardDomain.ExpireYear} {
		if _, ok := s.values[attr]; !ok {
			return false
		}
	}
	return true
}

// ToMap returns every held attribute keyed by label or numeric identifier. Labels in
// overrides take precedence over keys.
func (s *Store) ToMap(
	forStorage bool,
	keys KeyMode,
	overrides cardDomain.Labels,
) (map[string]string, error) {
	out := make(map[string]string, len(s.order))
	for _, attr := range s.order {
		v := s.values[attr]
		if forStorage {
			var err error
			if v, _, err = s.StorageValue(attr); err != nil {
				return nil, err
			}
		}
		out[s.keyOf(attr, keys, overrides)] = v
	}
	return out, nil
}

func (s *Store) keyOf(attr cardDomain.Attribute, keys KeyMode, overrides cardDomain.Labels) string {
	if label, ok := overrides.Label(attr); ok {
		return label
	}
	if keys == KeyByLabel {
		if label, ok := s.labels.Label(attr); ok {
			return label
		}
	}
	return strconv.Itoa(int(attr))
}

// FromMap sets every entry of values, keyed by label or numeric identifier.
//
// Entries are applied in ascending attribute order, so a secure_store entry overrides
// number and expiration entries given alongside it. Two keys naming the same attribute
// are rejected.
//
// With fromStorage every numeric attribute, CCV included, must hold a wire value. CCV is
// never encrypted by ToMap or StorageValue, so a storage map that carries card_ccv does not
// load back with fromStorage set; drop it or set it separately as plain text.
func (s *Store) FromMap(values map[string]string, fromStorage bool) error {
	resolved := make(map[cardDomain.Attribute]string, len(values))
	for ref, v := range values {
		attr, err := s.Resolve(ref)
		if err != nil {
			return errors.Wrapf(err, "attribute %q", ref)
		}
		if _, dup := resolved[attr]; dup {
			return errors.Wrapf(errors.ErrInvalidInput, "attribute %s given more than once", s.labelOf(attr))
		}
		resolved[attr] = v
	}

	attrs := make([]cardDomain.Attribute, 0, len(resolved))
	for attr := range resolved {
		attrs = append(attrs, attr)
	}
	slices.Sort(attrs)

	for _, attr := range attrs {
		if err := s.Set(attr, resolved[attr], fromStorage); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the populated card fields: number length and check digit, expiration
// month and year, and security code.
func (s *Store) Validate() error {
	rules := map[cardDomain.Attribute][]validation.Rule{
		cardDomain.Number:      appValidation.CardNumberRules(),
		cardDomain.ExpireMonth: appValidation.ExpireMonthRules(),
		cardDomain.ExpireYear:  appValidation.ExpireYearRules(),
		cardDomain.CCV:         appValidation.CCVRules(),
	}

	errs := validation.Errors{}
	for attr, attrRules := range rules {
		v, ok := s.values[attr]
		if !ok {
			continue
		}
		errs[s.labelOf(attr)] = validation.Validate(v, attrRules...)
	}
	return appValidation.WrapValidationError(errs.Filter())
}

// Attributes returns the held attributes in the order they were first set.
func (s *Store) Attributes() []cardDomain.Attribute {
	return slices.Clone(s.order)
}

// Label returns the label of attr in the store's table, or its numeric identifier.
func (s *Store) Label(attr cardDomain.Attribute) string {
	return s.labelOf(attr)
}

func (s *Store) labelOf(attr cardDomain.Attribute) string {
	if label, ok := s.labels.Label(attr); ok {
		return label
	}
	return attr.String()
}

// masked returns a value safe for logs. Only the last four digits of the card number
// survive; the other numeric fields are hidden completely.
func masked(attr cardDomain.Attribute, v string) string {
	switch {
	case attr == cardDomain.Number:
		if len(v) <= 4 {
			return strings.Repeat("*", len(v))
		}
		return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
	case attr.IsNumericOnly():
		return "****"
	default:
		return v
	}
}

func (s *Store) sortedAttrs() []cardDomain.Attribute {
	attrs := slices.Clone(s.order)
	slices.Sort(attrs)
	return attrs
}

// String renders the held attributes one per line with card data masked.
func (s *Store) String() string {
	var b strings.Builder
	for _, attr := range s.sortedAttrs() {
		fmt.Fprintf(&b, "%15s %s\n", s.labelOf(attr)+":", masked(attr, s.values[attr]))
	}
	return b.String()
}

// LogValue implements slog.LogValuer with card data masked.
func (s *Store) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(s.order))
	for _, attr := range s.sortedAttrs() {
		attrs = append(attrs, slog.String(s.labelOf(attr), masked(attr, s.values[attr])))
	}
	return slog.GroupValue(attrs...)
}
