package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

var ErrInvalidAddress = errors.New("invalid address")

// Normalize validates a hex account address and returns it in EIP-55
// checksum form. Mixed-case input must already carry a valid checksum.
func Normalize(address string) (string, error) {
	address = strings.TrimSpace(address)
	if len(address) != 42 || !(strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X")) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	body := address[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("%w: %q is not hex", ErrInvalidAddress, address)
	}

	checksummed := Checksum(body)
	if isMixedCase(body) && checksummed[2:] != body {
		return "", fmt.Errorf("%w: %q has a bad checksum", ErrInvalidAddress, address)
	}

	return checksummed, nil
}

// Checksum applies EIP-55 casing to a 40 character hex string (without 0x).
func Checksum(hexAddr string) string {
	lower := strings.ToLower(hexAddr)

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := make([]byte, len(lower))
	for i := range lower {
		c := lower[i]
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}

	return "0x" + string(out)
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}
