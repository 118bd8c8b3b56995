package gpu

import (
	"errors"
	"fmt"
)

// ErrBadSPIRV is returned for SPIR-V code that is empty or not a whole
// number of 32-bit words.
var ErrBadSPIRV = errors.New("gpu: SPIR-V code is not a sequence of 32-bit words")

// SPIRVWords converts little-endian SPIR-V bytes to words.
func SPIRVWords(code []byte) ([]uint32, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadSPIRV, len(code))
	}
	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = uint32(code[i*4]) |
			uint32(code[i*4+1])<<8 |
			uint32(code[i*4+2])<<16 |
			uint32(code[i*4+3])<<24
	}
	return words, nil
}
