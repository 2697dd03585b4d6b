package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/BackendStack21/hill-go/utils"
)

// ErrOddPCMLength is returned for raw PCM data that ends mid-sample.
var ErrOddPCMLength = errors.New("audio: PCM data has an odd number of bytes")

// SamplesToResidues maps signed samples onto [0, 65536) by two's complement.
func SamplesToResidues(samples []int16) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(uint16(s))
	}
	return out
}

// ResiduesToSamples maps residues back to signed samples.
// Values outside [0, 65536) are reduced first.
func ResiduesToSamples(residues []int) []int16 {
	out := make([]int16, len(residues))
	for i, r := range residues {
		out[i] = int16(uint16(r))
	}
	return out
}

// ReadPCM16 reads raw little-endian signed 16-bit samples until EOF.
func ReadPCM16(r io.Reader) ([]int16, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, ErrOddPCMLength
	}
	if err := utils.CheckLength(len(data)/2, utils.MaxPayloadLength); err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return samples, nil
}

// WritePCM16 writes samples as raw little-endian signed 16-bit PCM.
func WritePCM16(w io.Writer, samples []int16) error {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	_, err := w.Write(buf)
	return err
}
