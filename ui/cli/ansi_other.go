//go:build !windows

package cli

// EnableANSI is a no-op where VT processing is always on.
func EnableANSI() {}
