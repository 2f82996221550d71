//go:build !linux
// +build !linux

package netbytes

import "errors"

var errUnsupported = errors.New("per-process network counters require linux")

// MapSource is a placeholder on platforms without a pinned counter map.
type MapSource struct{}

// NewMapSource always fails off Linux; the pipeline runs with network
// fields absent.
func NewMapSource(pinPath string) (*MapSource, error) {
	return nil, errUnsupported
}

// Counters always fails on unsupported platforms.
func (s *MapSource) Counters() (map[int32]Counters, error) {
	return nil, errUnsupported
}

// Close is a no-op stub.
func (s *MapSource) Close() error {
	return nil
}
