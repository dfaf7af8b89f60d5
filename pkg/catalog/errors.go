package catalog

import "fmt"

// FatalDiscoveryError means no usable catalog could be built. The run must
// abort before producing any output; per-group discovery failures are only
// warnings and never produce this error.
type FatalDiscoveryError struct {
	Err error
}

func (e *FatalDiscoveryError) Error() string {
	return fmt.Sprintf("cluster discovery failed: %v", e.Err)
}

func (e *FatalDiscoveryError) Unwrap() error {
	return e.Err
}
