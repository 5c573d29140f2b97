// Package aptos holds helpers for Aptos account and object identifiers.
package aptos

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// IDLength is the byte length of a full Aptos account or object address.
const IDLength = 32

var (
	shortAddressRegex = regexp.MustCompile("^0x[0-9a-fA-F]{1,64}$")
)

// IsValidAddress reports whether s looks like an Aptos address, long or short form ("0x1").
func IsValidAddress(s string) bool {
	return shortAddressRegex.MatchString(s)
}

// ParseObjectID decodes a full-length 0x-prefixed identifier, such as a collection id,
// and returns it lower-cased.
func ParseObjectID(s string) (string, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return "", errors.Wrapf(err, "invalid object id %q", s)
	}
	if len(b) != IDLength {
		return "", errors.Errorf("object id %q has %d bytes, want %d", s, len(b), IDLength)
	}
	return strings.ToLower(s), nil
}
