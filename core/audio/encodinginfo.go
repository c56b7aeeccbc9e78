package audio

const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000
	DefaultChannels  = 1

	// FrameSize is the number of samples in a captured frame.
	FrameSize = 1024
)

func GetInputEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: InputSampleRate, Format: EncodingLinear16, Channels: DefaultChannels}
}

func GetOutputEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: OutputSampleRate, Format: EncodingLinear16, Channels: DefaultChannels}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
	Channels   int
}

// SampleSizeBits reports the bit depth of a single sample.
func (e EncodingInfo) SampleSizeBits() int {
	return e.Format.ByteSize() * 8
}

// ChannelCount defaults to mono when unset.
func (e EncodingInfo) ChannelCount() int {
	if e.Channels <= 0 {
		return DefaultChannels
	}
	return e.Channels
}

// BytesPerFrame returns the byte length of a frame holding the given number
// of samples per channel.
func (e EncodingInfo) BytesPerFrame(samples int) int {
	return samples * e.Format.ByteSize() * e.ChannelCount()
}

type encodingFormat string

func (e encodingFormat) ByteSize() int {
	if e == EncodingLinear16 {
		return 2
	}
	return -1
}

const EncodingLinear16 encodingFormat = "linear16"
