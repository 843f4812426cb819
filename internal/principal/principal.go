// Package principal implements the textual encoding of ledger principals and
// the derivation of ledger account identifiers from them.
package principal

import (
	"bytes"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
)

// MaxLength is the maximum number of raw bytes in a principal.
const MaxLength = 29

const (
	selfAuthenticatingSuffix = 0x02
	anonymousSuffix          = 0x04
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is the raw byte form of an identity.
type Principal []byte

// Anonymous is the identity used by unauthenticated callers ("2vxsx-fae").
var Anonymous = Principal{anonymousSuffix}

// SelfAuthenticating derives the principal owned by the holder of key.
func SelfAuthenticating(key []byte) Principal {
	sum := sha256.Sum224(key)
	return append(Principal(sum[:]), selfAuthenticatingSuffix)
}

// IsAnonymous reports whether p is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return bytes.Equal(p, Anonymous)
}

// String returns the canonical textual form: CRC32 checksum followed by the
// raw bytes, base32 encoded in lowercase and grouped by five with dashes.
func (p Principal) String() string {
	buf := make([]byte, 4+len(p))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(p))
	copy(buf[4:], p)
	enc := strings.ToLower(encoding.EncodeToString(buf))

	var sb strings.Builder
	for i := 0; i < len(enc); i += 5 {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + 5
		if end > len(enc) {
			end = len(enc)
		}
		sb.WriteString(enc[i:end])
	}
	return sb.String()
}

// Decode parses the textual form. Only the canonical spelling is accepted.
func Decode(text string) (Principal, error) {
	raw, err := encoding.DecodeString(strings.ToUpper(strings.ReplaceAll(text, "-", "")))
	if err != nil {
		return nil, apperror.InvalidInput(fmt.Sprintf("invalid principal %q", text), err)
	}
	if len(raw) < 4 {
		return nil, apperror.InvalidInput(fmt.Sprintf("invalid principal %q: too short", text), nil)
	}
	p := Principal(raw[4:])
	if len(p) > MaxLength {
		return nil, apperror.InvalidInput(fmt.Sprintf("invalid principal %q: too long", text), nil)
	}
	if binary.BigEndian.Uint32(raw[:4]) != crc32.ChecksumIEEE(p) {
		return nil, apperror.InvalidInput(fmt.Sprintf("invalid principal %q: checksum mismatch", text), nil)
	}
	if p.String() != text {
		return nil, apperror.InvalidInput(fmt.Sprintf("invalid principal %q: not in canonical form", text), nil)
	}
	return p, nil
}

// Subaccount selects one of a principal's ledger accounts.
type Subaccount [32]byte

// AccountIdentifier is the 32-byte ledger address of a (principal, subaccount) pair.
type AccountIdentifier [32]byte

var accountDomainSeparator = []byte("\x0Aaccount-id")

// NewAccountIdentifier computes CRC32(h) ‖ h where
// h = SHA-224("\x0Aaccount-id" ‖ principal ‖ subaccount). A nil subaccount is
// the default all-zero one.
func NewAccountIdentifier(p Principal, sub *Subaccount) AccountIdentifier {
	if sub == nil {
		sub = &Subaccount{}
	}
	h := sha256.New224()
	h.Write(accountDomainSeparator)
	h.Write(p)
	h.Write(sub[:])
	sum := h.Sum(nil)

	var id AccountIdentifier
	binary.BigEndian.PutUint32(id[:4], crc32.ChecksumIEEE(sum))
	copy(id[4:], sum)
	return id
}

func (a AccountIdentifier) String() string {
	return hex.EncodeToString(a[:])
}

// AddressFromText decodes a textual principal and returns the hex account
// identifier of its default subaccount.
func AddressFromText(text string) (string, error) {
	p, err := Decode(text)
	if err != nil {
		return "", err
	}
	return NewAccountIdentifier(p, nil).String(), nil
}
