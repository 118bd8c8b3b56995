package shaderpack

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
)

// Field sizes of the container layout.
const (
	// headerSize covers formats, stage, the four common resource counts,
	// the variant count and the entry point length.
	headerSize = 8 * 4

	// computeExtraSize covers the read-only storage counts and the three
	// thread-group dimensions.
	computeExtraSize = 5 * 4

	// variantHeaderSize covers the format and the 8-byte code size.
	variantHeaderSize = 4 + 8
)

// EncodedSize returns the exact size of the encoded blob.
func (b *Blob) EncodedSize() int {
	n := headerSize + len(b.EntryPoint) + 1
	if b.Stage == StageCompute {
		n += computeExtraSize
	}
	for _, v := range b.Variants {
		n += variantHeaderSize + len(v.Code)
	}
	return n
}

// Encode serializes b into the container format:
//
//	formats u32 | stage u32 | samplers u32 | uniform buffers u32 |
//	storage buffers u32 | storage textures u32 |
//	[compute: ro storage buffers u32 | ro storage textures u32 | x u32 | y u32 | z u32] |
//	variant count u32 | entry length u32 | entry bytes + NUL |
//	{ format u32 | code size u64 | code }...
//
// All integers are little-endian. For compute blobs the storage counts in
// the common prefix are the read-write counts.
func Encode(b *Blob) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	count, err := safecast.Conv[uint32](len(b.Variants))
	if err != nil {
		return nil, fmt.Errorf("shaderpack: variant count: %w", err)
	}
	entryLen, err := safecast.Conv[uint32](len(b.EntryPoint) + 1)
	if err != nil {
		return nil, fmt.Errorf("shaderpack: entry point length: %w", err)
	}

	w := writer{buf: make([]byte, 0, b.EncodedSize())}
	w.u32(uint32(b.Formats))
	w.u32(uint32(b.Stage))

	switch r := b.Resources.(type) {
	case GraphicsResources:
		w.u32(r.Samplers)
		w.u32(r.UniformBuffers)
		w.u32(r.StorageBuffers)
		w.u32(r.StorageTextures)
	case ComputeResources:
		w.u32(r.Samplers)
		w.u32(r.UniformBuffers)
		w.u32(r.ReadWriteStorageBuffers)
		w.u32(r.ReadWriteStorageTextures)
		w.u32(r.ReadOnlyStorageBuffers)
		w.u32(r.ReadOnlyStorageTextures)
		w.u32(r.ThreadCountX)
		w.u32(r.ThreadCountY)
		w.u32(r.ThreadCountZ)
	}

	w.u32(count)
	w.u32(entryLen)
	w.str0(b.EntryPoint)

	for _, v := range b.Variants {
		w.u32(uint32(v.Format))
		w.u64(uint64(len(v.Code)))
		w.bytes(v.Code)
	}
	return w.buf, nil
}

// Decode parses a container produced by Encode. Fields are read strictly in
// order; a buffer that ends early or declares an unknown stage fails with a
// *DecodeError. Bytes past the last variant are ignored, since some encoders
// pad the container. The returned blob owns copies of the variant code.
func Decode(data []byte) (*Blob, error) {
	r := reader{data: data}

	formats := FormatMask(r.u32("formats"))
	stageOff := r.off
	stage := Stage(r.u32("stage"))
	if r.err != nil {
		return nil, r.err
	}

	b := &Blob{Stage: stage, Formats: formats}
	switch stage {
	case StageVertex, StageFragment:
		b.Resources = decodeGraphics(&r)
	case StageCompute:
		b.Resources = decodeCompute(&r)
	default:
		return nil, &DecodeError{Field: "stage", Offset: stageOff, Err: fmt.Errorf("%w: %d", ErrUnknownStage, uint32(stage))}
	}

	count := r.u32("variant count")
	entryLen := r.u32("entry point length")
	entryOff := r.off
	entry := r.bytes("entry point", uint64(entryLen))
	if r.err != nil {
		return nil, r.err
	}
	if entryLen == 0 || entry[entryLen-1] != 0 || bytes.IndexByte(entry[:entryLen-1], 0) >= 0 {
		return nil, &DecodeError{Field: "entry point", Offset: entryOff, Err: ErrMalformedEntryPoint}
	}
	b.EntryPoint = string(entry[:entryLen-1])

	// Each variant needs at least its header, which bounds the allocation
	// for corrupt counts.
	capHint := r.remaining() / variantHeaderSize
	if uint64(count) < uint64(capHint) {
		capHint = int(count)
	}
	b.Variants = make([]Variant, 0, capHint)
	for i := range count {
		format := Format(r.u32(fmt.Sprintf("variant[%d].format", i)))
		size := r.u64(fmt.Sprintf("variant[%d].size", i))
		code := r.bytes(fmt.Sprintf("variant[%d].code", i), size)
		if r.err != nil {
			return nil, r.err
		}
		b.Variants = append(b.Variants, Variant{Format: format, Code: bytes.Clone(code)})
	}
	if n := r.remaining(); n != 0 {
		Logger().Debug("shaderpack: ignoring trailing bytes", "offset", r.off, "len", n)
	}

	if err := b.Validate(); err != nil {
		return nil, &DecodeError{Field: "blob", Offset: 0, Err: err}
	}
	return b, nil
}

func decodeGraphics(r *reader) GraphicsResources {
	return GraphicsResources{
		Samplers:        r.u32("samplers"),
		UniformBuffers:  r.u32("uniform buffers"),
		StorageBuffers:  r.u32("storage buffers"),
		StorageTextures: r.u32("storage textures"),
	}
}

func decodeCompute(r *reader) ComputeResources {
	return ComputeResources{
		Samplers:                 r.u32("samplers"),
		UniformBuffers:           r.u32("uniform buffers"),
		ReadWriteStorageBuffers:  r.u32("read-write storage buffers"),
		ReadWriteStorageTextures: r.u32("read-write storage textures"),
		ReadOnlyStorageBuffers:   r.u32("read-only storage buffers"),
		ReadOnlyStorageTextures:  r.u32("read-only storage textures"),
		ThreadCountX:             r.u32("thread count x"),
		ThreadCountY:             r.u32("thread count y"),
		ThreadCountZ:             r.u32("thread count z"),
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Blob) MarshalBinary() ([]byte, error) {
	return Encode(b)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *Blob) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}
