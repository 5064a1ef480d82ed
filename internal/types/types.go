package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// StringNilOrEmpty reports whether s is nil or points at the empty string
func StringNilOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// SafeString dereferences s, treating nil as the empty string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsTezosAddress reports whether s looks like a Tezos implicit or
// originated account address
func IsTezosAddress(s string) bool {
	for _, prefix := range []string{"tz1", "tz2", "tz3", "tz4", "KT1"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// IsEthereumAddress reports whether s is a well-formed 20-byte hex address
func IsEthereumAddress(s string) bool {
	return common.IsHexAddress(s)
}
