package audio

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, size := range []int{1, 2, 3, 2048, 4096, 4801} {
		frame := make([]byte, size)
		for i := range frame {
			frame[i] = byte(rng.UintN(256))
		}

		encoded, err := Encode(frame)
		require.NoError(t, err)

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, frame, decoded, "frame of %d bytes", size)
	}
}

func TestEncodeRejectsEmptyFrame(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestDecodeRejectsInvalidContent(t *testing.T) {
	_, err := Decode("not base64!")
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = Decode("")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestSilenceFrameSize(t *testing.T) {
	frame := Silence(FrameSize, GetOutputEncodingInfo())
	require.Len(t, frame, 2048)
	for _, b := range frame {
		require.Zero(t, b)
	}

	stereo := Silence(4, EncodingInfo{SampleRate: OutputSampleRate, Format: EncodingLinear16, Channels: 2})
	assert.Equal(t, make([]byte, 16), stereo)
}

func TestSamplesRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 1234}
	buf := make([]byte, 2*len(in))
	PutSamples(buf, in)

	out := make([]int16, len(in))
	n := Samples(out, buf)
	assert.Equal(t, len(in), n)
	assert.Equal(t, in, out)
}

func TestEncodingInfoDerivedValues(t *testing.T) {
	info := GetInputEncodingInfo()
	assert.Equal(t, 16, info.SampleSizeBits())
	assert.Equal(t, 1, info.ChannelCount())
	assert.Equal(t, 2048, info.BytesPerFrame(FrameSize))
	assert.Equal(t, -1, EncodingInfo{}.Format.ByteSize())
}
