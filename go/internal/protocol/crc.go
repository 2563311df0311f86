package protocol

// CRC8 computes the reflected CRC-8 with polynomial 0x8C used on the wire.
// Bits are consumed least significant first.
func CRC8(data []byte) byte {
	crc := byte(CRCSeed)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x01 != 0 {
				crc = (crc >> 1) ^ CRCPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
