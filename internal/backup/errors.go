package backup

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ValidationError reports every requested path that does not exist on
// the local filesystem. It is raised before any archiving or network
// work begins.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "files not found: " + strings.Join(e.Missing, ", ")
}

// SizeExceededError reports an encrypted backup over the configured
// ceiling. The check runs on ciphertext size, after encryption has
// completed and before any network call.
type SizeExceededError struct {
	Size  int64
	Limit int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("backup size (%s) exceeds limit (%s)",
		humanize.IBytes(uint64(e.Size)), humanize.IBytes(uint64(e.Limit)))
}
