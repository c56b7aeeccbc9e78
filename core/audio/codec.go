package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrEncoding is returned when audio cannot be moved between raw PCM and its
// transport encoding.
var ErrEncoding = errors.New("audio encoding error")

// Encode converts a raw PCM frame into the base64 text carried inside
// protocol events.
func Encode(frame []byte) (string, error) {
	if len(frame) == 0 {
		return "", fmt.Errorf("%w: empty frame", ErrEncoding)
	}
	return base64.StdEncoding.EncodeToString(frame), nil
}

// Decode reverses [Encode]. The result is bit-for-bit identical to the frame
// that was encoded.
func Decode(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrEncoding)
	}

	frame, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return frame, nil
}

// Silence returns a zeroed PCM frame of the given number of samples.
func Silence(samples int, encodingInfo EncodingInfo) []byte {
	return make([]byte, encodingInfo.BytesPerFrame(samples))
}

// PutSamples writes little-endian 16-bit samples into dst, which must hold
// at least 2*len(samples) bytes.
func PutSamples(dst []byte, samples []int16) {
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(sample))
	}
}

// Samples reads little-endian 16-bit samples from src into dst and returns
// the number of samples read. A trailing odd byte is ignored.
func Samples(dst []int16, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := range n {
		dst[i] = int16(binary.LittleEndian.Uint16(src[2*i:]))
	}
	return n
}
