//go:build !windows

package photoshop

import "fmt"

// Connect fails everywhere but Windows: the editor's automation surface is
// only reachable over COM.
func Connect() (Application, error) {
	return nil, fmt.Errorf("%w: COM automation requires Windows", ErrApplicationUnavailable)
}
