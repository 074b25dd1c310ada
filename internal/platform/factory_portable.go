//go:build !linux && !windows

package platform

// newPlatform selects the portable implementation for systems without a
// native one (macOS, the BSDs, Solaris).
func newPlatform() (Platform, error) {
	return NewPortablePlatform(), nil
}
