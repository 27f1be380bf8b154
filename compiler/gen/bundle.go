package gen

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// bundleVersion is bumped when the bundle layout changes.
const bundleVersion = 1

// Bundle is the serialized result of a run, for transport between
// processes.
type Bundle struct {
	Version int      `msgpack:"version"`
	App     string   `msgpack:"app"`
	Modules []Module `msgpack:"modules"`
}

// EncodeBundle writes the modules of app to w as a msgpack bundle.
func EncodeBundle(w io.Writer, app string, modules []Module) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&Bundle{Version: bundleVersion, App: app, Modules: modules})
}

// DecodeBundle reads a msgpack bundle from r.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := msgpack.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.Version != bundleVersion {
		return nil, fmt.Errorf("decode bundle: unsupported version %d", b.Version)
	}
	return &b, nil
}
