// Package loader turns shader blobs into device resources at run time.
//
// The loader decodes a blob, picks the first variant whose format the
// device supports (variants are stored in build preference order) and
// hands the bytecode with its resource counts to the device:
//
//	shader, err := loader.LoadShader(dev, data)
//	if errors.Is(err, loader.ErrNoMatchingVariant) {
//		// the blob was not built for this backend
//	}
//
// Metal reserves the name "main", so MSL variants declared with entry
// point "main" are created with "main0".
//
// A Loader adds file loading through an LRU of decoded blobs, keyed by
// path, size and modification time.
package loader
