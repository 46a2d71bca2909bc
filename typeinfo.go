package morph

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Tag names understood by morph.
const (
	tagKey       = "map"
	tagFrom      = "map.from"
	tagNested    = "map.nested"
	tagTransform = "map.transform"
	tagAuto      = "map.auto"
)

var mappingTags = []string{tagKey, tagFrom, tagNested, tagTransform, tagAuto}

func init() {
	for _, tag := range mappingTags {
		sentinel.Tag(tag)
	}
}

// typeInfo caches the mappable fields of a struct type.
type typeInfo struct {
	typ    reflect.Type
	fields []*fieldInfo
	byKey  map[string]*fieldInfo
}

// fieldInfo describes one exported struct field.
type fieldInfo struct {
	name  string // Go field name
	key   string // mapping key: `map` tag or Go field name
	index []int  // reflect.Value.FieldByIndex access path
	typ   reflect.Type
	tags  map[string]string
}

// lookup resolves a destination key, accepting either the mapping key or the
// Go field name.
func (ti *typeInfo) lookup(key string) (*fieldInfo, bool) {
	if ti == nil {
		return nil, false
	}
	f, ok := ti.byKey[key]
	return f, ok
}

var (
	typeInfos   = make(map[reflect.Type]*typeInfo)
	typeInfosMu sync.RWMutex
)

// getTypeInfo returns cached field information for a struct type, or nil for
// any other kind.
func getTypeInfo(rt reflect.Type) *typeInfo {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil
	}

	typeInfosMu.RLock()
	if info, ok := typeInfos[rt]; ok {
		typeInfosMu.RUnlock()
		return info
	}
	typeInfosMu.RUnlock()

	typeInfosMu.Lock()
	defer typeInfosMu.Unlock()

	if info, ok := typeInfos[rt]; ok {
		return info
	}

	info := buildTypeInfo(rt)
	typeInfos[rt] = info
	return info
}

// buildTypeInfo prefers sentinel's scanned metadata and falls back to a
// reflective scan for types sentinel has not seen.
func buildTypeInfo(rt reflect.Type) *typeInfo {
	info := &typeInfo{
		typ:   rt,
		byKey: make(map[string]*fieldInfo),
	}

	if meta, ok := sentinel.Lookup(rt.String()); ok && len(meta.Fields) > 0 && !hasEmbedded(rt) && describes(meta, rt) {
		for _, field := range meta.Fields {
			if len(field.Index) == 0 || !isExportedName(field.Name) {
				continue
			}
			sf := rt.FieldByIndex(field.Index)
			tags := make(map[string]string, len(field.Tags))
			for k, v := range field.Tags {
				tags[k] = v
			}
			// sentinel only records registered tags; fill any it missed.
			for k, v := range parseMappingTags(sf.Tag) {
				if _, ok := tags[k]; !ok {
					tags[k] = v
				}
			}
			info.add(&fieldInfo{
				name:  field.Name,
				index: append([]int{}, field.Index...),
				typ:   sf.Type,
				tags:  tags,
			})
		}
		return info
	}

	collectFields(rt, nil, info)
	return info
}

// collectFields walks exported fields, promoting embedded structs.
func collectFields(rt reflect.Type, parent []int, info *typeInfo) {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		index := append(append([]int{}, parent...), i)

		if sf.Anonymous && sf.Tag.Get(tagKey) == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, index, info)
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		info.add(&fieldInfo{
			name:  sf.Name,
			index: index,
			typ:   sf.Type,
			tags:  parseMappingTags(sf.Tag),
		})
	}
}

// add registers f under its key and Go name. Keys win over names on conflict.
func (ti *typeInfo) add(f *fieldInfo) {
	f.key = f.name
	switch k := f.tags[tagKey]; k {
	case "-":
		return
	case "":
	default:
		f.key = k
	}
	if _, dup := ti.byKey[f.key]; dup {
		return
	}
	ti.fields = append(ti.fields, f)
	ti.byKey[f.key] = f
	if _, taken := ti.byKey[f.name]; !taken {
		ti.byKey[f.name] = f
	}
}

// parseMappingTags extracts morph tags from a struct tag.
func parseMappingTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range mappingTags {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// describes guards against sentinel metadata recorded for a different type
// that shares rt's printed name, such as two function-local types.
func describes(meta sentinel.Metadata, rt reflect.Type) bool {
	for _, field := range meta.Fields {
		if len(field.Index) != 1 || field.Index[0] >= rt.NumField() {
			return false
		}
		sf := rt.Field(field.Index[0])
		if sf.Name != field.Name || sf.Type != field.ReflectType {
			return false
		}
	}
	return true
}

// hasEmbedded reports whether rt promotes fields from an embedded struct.
// sentinel reports embedded structs as single fields, so those types take
// the reflective path.
func hasEmbedded(rt reflect.Type) bool {
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Anonymous {
			return true
		}
	}
	return false
}

func isExportedName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
