package module

import "reflect"

// PortSet is a marker for module defined port sets
type PortSet = any

// PortsOf extracts T from a module's Ports bundle
// the bundle itself is tried first, then each exported field in order
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, it panics when T is absent
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		var zero T
		panic("module: " + m.Name() + " has no port of type " + reflect.TypeOf(&zero).Elem().String())
	}
	return v
}
