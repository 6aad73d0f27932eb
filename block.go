// Block-level primitives: the secret-dependent schedule expansion and the
// Feistel round loops. Structure follows the golang.org/x/crypto/blowfish
// package with the round count restored to the standard 16.

package bluefin

const rounds = 16

// expandKey mixes the secret into c's p table and then regenerates the
// entire schedule by repeatedly encrypting a running block with the
// partially built schedule. The p table and the four substitution tables
// are overwritten pairwise in one continuous stream of replacements.
func expandKey(key []byte, c *Cipher) {
	// XOR each p entry with 4 bytes of the key, big-endian, wrapping
	// around at the end of the key. An empty key contributes all-zero
	// chunks, which leave the p table untouched.
	if len(key) > 0 {
		j := 0
		for i := 0; i < 18; i++ {
			var d uint32
			for k := 0; k < 4; k++ {
				d = d<<8 | uint32(key[j])
				j++
				if j >= len(key) {
					j = 0
				}
			}
			c.p[i] ^= d
		}
	}

	var l, r uint32
	for i := 0; i < 18; i += 2 {
		l, r = encryptBlock(l, r, c)
		c.p[i], c.p[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = encryptBlock(l, r, c)
		c.s0[i], c.s0[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = encryptBlock(l, r, c)
		c.s1[i], c.s1[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = encryptBlock(l, r, c)
		c.s2[i], c.s2[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = encryptBlock(l, r, c)
		c.s3[i], c.s3[i+1] = l, r
	}
}

// f is the round function. The mix of wrapping 32-bit addition and XOR
// across the four table lookups is the cipher's non-linearity source.
func f(c *Cipher, x uint32) uint32 {
	return ((c.s0[byte(x>>24)] + c.s1[byte(x>>16)]) ^ c.s2[byte(x>>8)]) + c.s3[byte(x)]
}

func encryptBlock(l, r uint32, c *Cipher) (uint32, uint32) {
	xl, xr := l, r
	for i := 0; i < rounds; i++ {
		xl ^= c.p[i]
		xr ^= f(c, xl)
		xl, xr = xr, xl
	}
	// Undo the final swap, then apply the output whitening keys.
	xl, xr = xr, xl
	xr ^= c.p[16]
	xl ^= c.p[17]
	return xl, xr
}

func decryptBlock(l, r uint32, c *Cipher) (uint32, uint32) {
	xl, xr := l, r
	for i := 17; i > 1; i-- {
		xl ^= c.p[i]
		xr ^= f(c, xl)
		xl, xr = xr, xl
	}
	xl, xr = xr, xl
	xr ^= c.p[1]
	xl ^= c.p[0]
	return xl, xr
}
