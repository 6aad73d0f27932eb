package bluefin

import "strconv"

// InvalidLengthError is returned by the ECB functions when the input length
// is not a multiple of the block size. ECB defines no padding, so callers
// must pad (or reject) short inputs themselves before transforming them.
type InvalidLengthError int

func (e InvalidLengthError) Error() string {
	return "bluefin: input length not a multiple of the block size: " + strconv.Itoa(int(e))
}

// ECBEncrypt encrypts src block by block in ECB mode and returns the
// ciphertext, which is always the same length as src. Each block is
// encrypted independently, so identical plaintext blocks produce identical
// ciphertext blocks; callers needing to hide that structure should use a
// chained mode from crypto/cipher instead.
func (c *Cipher) ECBEncrypt(src []byte) ([]byte, error) {
	if len(src)%BlockSize != 0 {
		return nil, InvalidLengthError(len(src))
	}
	dst := make([]byte, len(src))
	for i := 0; i < len(src); i += BlockSize {
		c.Encrypt(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	return dst, nil
}

// ECBDecrypt decrypts src block by block in ECB mode and returns the
// plaintext, which is always the same length as src.
func (c *Cipher) ECBDecrypt(src []byte) ([]byte, error) {
	if len(src)%BlockSize != 0 {
		return nil, InvalidLengthError(len(src))
	}
	dst := make([]byte, len(src))
	for i := 0; i < len(src); i += BlockSize {
		c.Decrypt(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	return dst, nil
}
