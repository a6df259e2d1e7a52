package module

import "sync"

// ports holds each mounted module's port bundle by module name, so bootstrap
// code can look one up without importing the module that owns it
var ports sync.Map

// Register publishes a module's port bundle. A later call for the same name
// replaces the earlier one
func Register(name string, p any) { ports.Store(name, p) }

// PortsAs returns the bundle registered under name when it is a T
func PortsAs[T any](name string) (T, bool) {
	v, _ := ports.Load(name)
	t, ok := v.(T)
	return t, ok
}

// Reset forgets every registration. Tests call it in t.Cleanup
func Reset() { ports.Clear() }
