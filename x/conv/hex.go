package conv

const hexd = "0123456789ABCDEF"

// U32Hex writes 8-digit uppercase hex without 0x, zero-padded.
func U32Hex(buf []byte, n uint32) []byte {
	return hexDigits(buf, uint64(n), 8)
}

// U8Hex writes 2-digit uppercase hex without 0x.
func U8Hex(buf []byte, n uint8) []byte {
	return hexDigits(buf, uint64(n), 2)
}

func hexDigits(buf []byte, n uint64, digits int) []byte {
	if len(buf) < digits {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < digits; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
