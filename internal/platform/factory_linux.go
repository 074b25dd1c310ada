//go:build linux

package platform

// newPlatform selects the native Linux implementation.
func newPlatform() (Platform, error) {
	return NewLinuxPlatform(), nil
}
