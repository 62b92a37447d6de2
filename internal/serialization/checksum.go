package serialization

import (
	"crypto/sha256"
	"crypto/subtle"
	"io"
)

// ComputeChecksum returns the SHA-256 digest of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ComputeChecksumReader returns the SHA-256 digest of everything read
// from r.
func ComputeChecksumReader(r io.Reader) ([ChecksumSize]byte, error) {
	var digest [ChecksumSize]byte
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return digest, err
	}
	copy(digest[:], h.Sum(nil))
	return digest, nil
}

// ValidateChecksum compares data's digest against expected in constant
// time.
func ValidateChecksum(data []byte, expected [ChecksumSize]byte) bool {
	actual := ComputeChecksum(data)
	return subtle.ConstantTimeCompare(actual[:], expected[:]) == 1
}
