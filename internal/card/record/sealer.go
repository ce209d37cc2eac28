// Package record converts whole card records between their plain form and the form kept in
// storage, one record or a JSON-lines stream at a time.
package record

import (
	"github.com/allisson/cardfreezer/internal/card/domain"
	"github.com/allisson/cardfreezer/internal/card/store"
)

// Record maps attribute labels (or numeric identifiers) to values.
type Record map[string]string

// Sealer builds a fresh Store per record with the same options, so a single Sealer is safe
// for concurrent use.
type Sealer struct {
	opts []store.Option
}

// NewSealer creates a Sealer whose stores are configured with opts.
func NewSealer(opts ...store.Option) *Sealer {
	return &Sealer{opts: opts}
}

func (s *Sealer) newStore(extra ...store.Option) (*store.Store, error) {
	opts := append(append([]store.Option{}, s.opts...), extra...)
	return store.New(nil, opts...)
}

// Seal turns a plain record into its storage form, keyed by label.
//
// Number, expiration month and expiration year are encrypted, or packed into a single
// secure_store entry when secureStore is true. The security code is never emitted.
func (s *Sealer) Seal(plain Record, secureStore bool) (Record, error) {
	st, err := s.newStore()
	if err != nil {
		return nil, err
	}
	if err := st.FromMap(plain, false); err != nil {
		return nil, err
	}
	return seal(st, secureStore)
}

// Unseal turns a storage record back into its plain form, keyed by label. A record holding
// secure_store yields number and expiration entries instead. Records produced by Seal never
// carry card_ccv; one that does is rejected, since stored CCV values are expected encrypted.
func (s *Sealer) Unseal(storage Record) (Record, error) {
	st, err := s.newStore()
	if err != nil {
		return nil, err
	}
	if err := st.FromMap(storage, true); err != nil {
		return nil, err
	}
	return st.ToMap(false, store.KeyByLabel, domain.Labels{})
}

// Rotate decrypts a storage record with the current pass key and seals it again under
// newKey. The record keeps its layout: a secure_store record stays packed.
func (s *Sealer) Rotate(storage Record, newKey []byte) (Record, error) {
	st, err := s.newStore()
	if err != nil {
		return nil, err
	}
	if err := st.FromMap(storage, true); err != nil {
		return nil, err
	}

	secureStore := false
	for ref := range storage {
		if attr, err := st.Resolve(ref); err == nil && attr == domain.SecureStore {
			secureStore = true
			break
		}
	}

	st.SetPassKey(newKey)
	return seal(st, secureStore)
}

func seal(st *store.Store, secureStore bool) (Record, error) {
	out := make(Record)

	if secureStore {
		packed, err := st.SecureStore()
		if err != nil {
			return nil, err
		}
		out[st.Label(domain.SecureStore)] = packed
	}

	for _, attr := range st.Attributes() {
		if attr == domain.CCV {
			continue
		}
		if secureStore && attr.IsEncryptedAtRest() {
			continue
		}
		v, _, err := st.StorageValue(attr)
		if err != nil {
			return nil, err
		}
		out[st.Label(attr)] = v
	}
	return out, nil
}
