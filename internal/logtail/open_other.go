//go:build !windows

package logtail

import "os"

// OpenShared opens path read-only. POSIX systems never lock a file against
// other writers, so a plain open already tolerates a concurrent producer.
func OpenShared(path string) (*os.File, error) {
	return os.Open(path)
}
