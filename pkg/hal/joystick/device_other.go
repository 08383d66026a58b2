//go:build !linux
// +build !linux

package joystick

// Open is not supported on this platform.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}
