package compression

import (
	"sync"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
)

// Registry maps a Compression attribute value to the Codec that
// implements it.
type Registry struct {
	mu     sync.RWMutex
	codecs map[attribute.Compression]Codec
}

var defaultRegistry = &Registry{
	codecs: make(map[attribute.Compression]Codec),
}

// Register adds codec as the implementation of compression kind.
func Register(kind attribute.Compression, codec Codec) {
	defaultRegistry.Register(kind, codec)
}

// Get retrieves the codec registered for kind.
func Get(kind attribute.Compression) (Codec, error) {
	return defaultRegistry.Get(kind)
}

func (r *Registry) Register(kind attribute.Compression, codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[kind] = codec
}

func (r *Registry) Get(kind attribute.Compression) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[kind]
	if !ok {
		return nil, exr.NotSupported("compression " + kind.String())
	}
	return codec, nil
}
