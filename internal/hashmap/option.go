package hashmap

import (
	"github.com/im7mortal/kmutex"
	"go.uber.org/zap"
)

type Option func(hashMap *HashMap)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(hashMap *HashMap) {
		hashMap.logger = logger
	}
}

// WithSerializedWrites makes writes and cache fills for the same key wait
// for each other, so that the cache can't end up holding an older value
// than the store.
func WithSerializedWrites() Option {
	return func(hashMap *HashMap) {
		hashMap.kmutex = kmutex.New()
	}
}
