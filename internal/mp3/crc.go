package mp3

import "github.com/sigurn/crc16"

// crcTable is the MPEG audio error check: CRC-16 with polynomial 0x8005,
// initial value 0xFFFF, processed MSB first without reflection.
var crcTable = crc16.MakeTable(crc16.Params{
	Poly:  0x8005,
	Init:  0xFFFF,
	Check: 0xAEE7,
	Name:  "CRC-16/MPEG-AUDIO",
})

// checksum computes the MPEG audio CRC over p.
func checksum(p []byte) uint16 {
	return crc16.Checksum(p, crcTable)
}
