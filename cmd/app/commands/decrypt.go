package commands

import (
	"fmt"
	"io"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	"github.com/allisson/cardfreezer/internal/card/store"
)

// RunDecrypt prints the plain value of a stored attribute. A secure-store value prints
// number and expiration, as text lines or as a JSON object depending on format.
func RunDecrypt(st *store.Store, writer io.Writer, attrRef, wire, format string) error {
	attr, err := st.Resolve(attrRef)
	if err != nil {
		return fmt.Errorf("invalid attribute %q: %w", attrRef, err)
	}

	if err := st.Set(attr, wire, true); err != nil {
		return err
	}

	if attr != cardDomain.SecureStore {
		plain, _ := st.Lookup(attr)
		if format == "json" {
			return writeJSON(writer, map[string]string{st.Label(attr): plain})
		}
		_, err := fmt.Fprintln(writer, plain)
		return err
	}

	if format == "json" {
		m, err := st.ToMap(false, store.KeyByLabel, cardDomain.Labels{})
		if err != nil {
			return err
		}
		return writeJSON(writer, m)
	}

	for _, a := range []cardDomain.Attribute{cardDomain.Number, cardDomain.ExpireMonth, cardDomain.ExpireYear} {
		v, _ := st.Lookup(a)
		if _, err := fmt.Fprintf(writer, "%s=%s\n", st.Label(a), v); err != nil {
			return err
		}
	}
	return nil
}
