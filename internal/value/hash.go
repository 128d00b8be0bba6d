package value

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content hashes. The version suffix allows the
// algorithm to change without colliding with old journal rows.
const (
	DomainScript = "vls/script/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps domain and data unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ScriptHash identifies script text independent of Unicode normalization
// form. ServerNode ids are regenerated on every save, so two saves of the
// same graph usually hash differently; the hash identifies file content,
// not graph shape.
func ScriptHash(text string) string {
	return hashWithDomain(DomainScript, norm.NFC.Bytes([]byte(text)))
}
