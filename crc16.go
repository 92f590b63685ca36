package fdc

// crc16CCITT computes the CRC-16/CCITT-FALSE checksum WD1772 ID and data
// fields use (polynomial 0x1021, initial value 0xffff, no reflection),
// covering the three A1 sync marks plus the field bytes per spec.md §4.D's
// Read Address byte layout.
func crc16CCITT(data []byte) uint16 {
	var crc uint16 = 0xffff
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// idFieldCRCInput builds the byte sequence a Read Address CRC is computed
// over: three A1 sync bytes, the FE ID-mark byte, then track/side/sector/
// length-code.
func idFieldCRCInput(track, side, sector, lengthCode byte) []byte {
	return []byte{0xa1, 0xa1, 0xa1, 0xfe, track, side, sector, lengthCode}
}
