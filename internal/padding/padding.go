// Package padding implements PKCS#7 padding. The cipher's ECB functions
// reject inputs that are not block aligned, so callers working with
// arbitrary-length data pad before encrypting and unpad after decrypting.
package padding

import "errors"

// ErrMalformed is returned by Unpad when the trailing bytes are not a
// valid PKCS#7 suffix, usually meaning the data was decrypted with the
// wrong key or was never padded.
var ErrMalformed = errors.New("padding: malformed PKCS#7 padding")

// Pad appends a PKCS#7 suffix so that the result is a multiple of
// blockSize. Between 1 and blockSize bytes are always added, so Unpad can
// recover the original length unambiguously.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - (len(data) % blockSize)
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Unpad strips the PKCS#7 suffix appended by Pad.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrMalformed
	}

	n := int(data[len(data)-1])
	if n == 0 || n > len(data) {
		return nil, ErrMalformed
	}
	for i := len(data) - n; i < len(data); i++ {
		if data[i] != byte(n) {
			return nil, ErrMalformed
		}
	}
	return data[:len(data)-n], nil
}
