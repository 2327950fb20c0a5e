// Package delta is the patch-application boundary. The container
// decoder in package bsdiff stops at decoded streams; turning an old
// file plus a patch into a new file is delegated to a Patcher.
package delta

import (
	"io"

	"github.com/gabstv/go-bsdiff/pkg/bspatch"
)

// Patcher reconstructs target from source and a patch stream.
type Patcher interface {
	Patch(source io.Reader, target io.Writer, patch io.Reader) error
}

// Bsdiff applies legacy BSDIFF40 patches. The newer BSDF2 containers
// would need a patcher aware of per-stream compressors; none of the
// implementations available handle them.
type Bsdiff struct{}

func (Bsdiff) Patch(source io.Reader, target io.Writer, patch io.Reader) error {
	return bspatch.Reader(source, target, patch)
}
