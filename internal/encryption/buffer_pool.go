package encryption

import "sync"

const bufferSize = 32 * 1024

// bufferPool recycles the read buffers used by the streaming cipher so
// concurrent upload and download pipelines do not reallocate them.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, bufferSize)
	},
}
