package morph

import (
	"reflect"
	"strings"

	"github.com/kode4food/lru"
)

const pathCacheSize = 1024

var pathCache = lru.NewCache[[]string](pathCacheSize)

// parsePath splits a dotted source path. Parsed paths are shared, callers
// must not modify the result.
func parsePath(path string) []string {
	segments, _ := pathCache.Get(path, func() ([]string, error) {
		return strings.Split(path, "."), nil
	})
	return segments
}

// resolvePath walks a dotted path through structs and string-keyed maps. A
// missing segment or a nil intermediate yields undefined (false).
func resolvePath(src any, path string) (any, bool) {
	cur := src
	for _, segment := range parsePath(path) {
		if IsNull(cur) || IsUndefined(cur) {
			return nil, false
		}
		next, ok := readField(reflect.ValueOf(cur), segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
