// Package bluefin implements a Blowfish-style 16-round Feistel cipher over
// 64-bit blocks, along with an ECB helper for transforming longer buffers.
//
// The cipher layout is modeled on the golang.org/x/crypto/blowfish package:
// a schedule of 18 round keys and four 256-entry substitution tables is
// seeded from the hexadecimal digits of pi and expanded with the secret.
// Unlike that package, key derivation here is a total function; any byte
// sequence is a legal secret, including an empty one.
package bluefin

import "encoding/binary"

// BlockSize is the cipher's block size in bytes.
const BlockSize = 8

// A Cipher is an instance of the cipher keyed with a particular secret.
// It is immutable once constructed and safe for concurrent use.
type Cipher struct {
	p              [18]uint32
	s0, s1, s2, s3 [256]uint32
}

// NewCipher derives a schedule from key and returns the ready-to-use Cipher.
// Derivation never fails; an empty key behaves as an all-zero repeating key.
func NewCipher(key []byte) *Cipher {
	var c Cipher
	initCipher(&c)
	expandKey(key, &c)
	return &c
}

// BlockSize returns the cipher's block size, 8 bytes. It is part of the
// crypto/cipher Block interface.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the 8-byte block in src and stores the result in dst.
// Note that for amounts of data larger than a block, it is not safe to just
// call Encrypt on successive blocks; use ECBEncrypt or an encryption mode
// from crypto/cipher.
func (c *Cipher) Encrypt(dst, src []byte) {
	l := binary.BigEndian.Uint32(src[0:4])
	r := binary.BigEndian.Uint32(src[4:8])
	l, r = encryptBlock(l, r, c)
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

// Decrypt decrypts the 8-byte block in src and stores the result in dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	l := binary.BigEndian.Uint32(src[0:4])
	r := binary.BigEndian.Uint32(src[4:8])
	l, r = decryptBlock(l, r, c)
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

func initCipher(c *Cipher) {
	copy(c.p[0:], p[0:])
	copy(c.s0[0:], s0[0:])
	copy(c.s1[0:], s1[0:])
	copy(c.s2[0:], s2[0:])
	copy(c.s3[0:], s3[0:])
}
