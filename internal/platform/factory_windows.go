//go:build windows

package platform

// newPlatform selects the native Windows implementation.
func newPlatform() (Platform, error) {
	return NewWindowsPlatform(), nil
}
