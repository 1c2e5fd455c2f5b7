package asm

import (
	"fmt"
	"sort"
	"strings"
)

// hexRecordLen is the data byte count per Intel HEX record.
const hexRecordLen = 16

// IntelHex renders a binary as Intel HEX data records of up to 16 bytes,
// ":LLAAAA00DD..DDCC", terminated by the fixed end-of-file record. The
// checksum is the two's complement of the low byte of the sum of length,
// both address bytes and the data bytes.
func IntelHex(bin []byte) string {
	var sb strings.Builder
	for start := 0; start < len(bin); start += hexRecordLen {
		end := start + hexRecordLen
		if end > len(bin) {
			end = len(bin)
		}
		chunk := bin[start:end]

		sum := byte(len(chunk)) + byte(start>>8) + byte(start&0xFF)
		fmt.Fprintf(&sb, ":%02X%04X00", len(chunk), start)
		for _, b := range chunk {
			fmt.Fprintf(&sb, "%02X", b)
			sum += b
		}
		fmt.Fprintf(&sb, "%02X\n", byte(-sum))
	}
	sb.WriteString(":00000001FF\n")
	return sb.String()
}

// MemoryMap renders one line per byte: decimal address, hex value and
// the description Encode recorded for that address.
func MemoryMap(bin []byte, descs map[int]string) string {
	addrs := make([]int, 0, len(bin))
	for addr := range bin {
		addrs = append(addrs, addr)
	}
	sort.Ints(addrs)

	var sb strings.Builder
	for _, addr := range addrs {
		desc := descs[addr]
		if desc == "" {
			desc = "(padding)"
		}
		fmt.Fprintf(&sb, "%3d  0x%02X  %s\n", addr, bin[addr], desc)
	}
	return sb.String()
}
