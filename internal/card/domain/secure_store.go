package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var secureStorePattern = regexp.MustCompile(`^([0-9]{2})([0-9]{4})(.*)$`)

// PackSecureStore builds the secure-store plaintext: the month zero padded to two digits,
// the year zero padded to four digits, then the card number.
//
// Month must fit two digits and year four, otherwise the packed fields would shift into
// each other on decode. The packed value is encrypted as a single chunk, so a
// number longer than ChunkSize-6 digits is rejected later by the codec.
func PackSecureStore(month, year, number string) (string, error) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 0 || m > 99 {
		return "", fmt.Errorf("%w: expiration month %q", ErrSecureStoreIncomplete, month)
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: expiration year %q", ErrSecureStoreIncomplete, year)
	}
	return fmt.Sprintf("%02d%04d%s", m, y, number), nil
}

// UnpackSecureStore splits a secure-store plaintext into month, year and number.
// A plaintext that does not match the packed layout yields ErrSecureStoreDecode.
func UnpackSecureStore(plain string) (month, year, number string, err error) {
	matches := secureStorePattern.FindStringSubmatch(plain)
	if matches == nil {
		return "", "", "", ErrSecureStoreDecode
	}
	return matches[1], matches[2], matches[3], nil
}
