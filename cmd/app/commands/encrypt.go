package commands

import (
	"fmt"
	"io"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	"github.com/allisson/cardfreezer/internal/card/store"
)

// RunEncrypt prints the storage form of a single attribute value. Numeric attributes are
// stripped of non-digits first; text attributes are printed verbatim since they are not
// encrypted at rest.
func RunEncrypt(st *store.Store, writer io.Writer, attrRef, value string) error {
	attr, err := st.Resolve(attrRef)
	if err != nil {
		return fmt.Errorf("invalid attribute %q: %w", attrRef, err)
	}
	if attr == cardDomain.SecureStore {
		return fmt.Errorf("use encrypt-secure-store to pack %s", st.Label(attr))
	}

	if err := st.Set(attr, value, false); err != nil {
		return err
	}
	wire, _, err := st.StorageValue(attr)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer, wire)
	return err
}

// RunEncryptSecureStore prints the secure-store value packing number, month and year.
func RunEncryptSecureStore(st *store.Store, writer io.Writer, number, month, year string) error {
	for attr, v := range map[cardDomain.Attribute]string{
		cardDomain.Number:      number,
		cardDomain.ExpireMonth: month,
		cardDomain.ExpireYear:  year,
	} {
		if err := st.Set(attr, v, false); err != nil {
			return err
		}
	}

	wire, err := st.SecureStore()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer, wire)
	return err
}
