package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Digest returns a hex sha256 fingerprint of the index contents.
//
// encoding/json writes map keys in sorted order, so the digest is stable for
// equal indexes regardless of load order.
//
// Postcondition: equal indexes produce equal digests.
func (idx *Index) Digest() string {
	b, err := json.Marshal(idx)
	if err != nil {
		// Index contains only plain data; Marshal cannot fail.
		panic("content: digest marshal failed: " + err.Error())
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
