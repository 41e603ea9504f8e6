package skeleton

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	json "github.com/goccy/go-json"

	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
)

// FieldStat describes one field observed across sibling objects.
type FieldStat struct {
	Path          string   `json:"path"`                // "user.name", "items[].id"
	Kinds         []string `json:"kinds"`               // distinct kind labels observed, sorted
	Frequency     float64  `json:"frequency"`           // fraction of siblings containing the field
	Required      bool     `json:"required"`            // present in every sibling and never null
	Nullable      bool     `json:"nullable"`            // null in at least one sibling
	DistinctCount int      `json:"distinct_count"`      // distinct non-null values
	Examples      []any    `json:"examples,omitempty"`  // up to 3 scalar example values
}

const (
	statsMaxDepth    = 5
	statsMaxExamples = 3
)

// ProfileDocument computes field statistics for a document. An array
// profiles its object elements as siblings; a lone object is profiled as a
// single sibling. Other kinds have no fields to profile.
func ProfileDocument(doc jsonvalue.Value) []FieldStat {
	switch doc.Kind() {
	case jsonvalue.KindArray:
		return Profile(doc.Elems())
	case jsonvalue.KindObject:
		return Profile([]jsonvalue.Value{doc})
	default:
		return nil
	}
}

// Profile computes per-field statistics across sibling values. Non-object
// siblings count toward the total but contribute no fields, so frequencies
// reflect how often a field appears across all siblings.
func Profile(siblings []jsonvalue.Value) []FieldStat {
	if len(siblings) == 0 {
		return nil
	}
	var stats []FieldStat
	profileLevel("", siblings, 0, &stats)
	return stats
}

func profileLevel(prefix string, siblings []jsonvalue.Value, depth int, stats *[]FieldStat) {
	if depth > statsMaxDepth {
		return
	}

	total := uint64(len(siblings))
	presence := make(map[string]*roaring.Bitmap)
	nulls := make(map[string]*roaring.Bitmap)
	kinds := make(map[string]map[string]bool)
	distinct := make(map[string]map[string]bool)
	examples := make(map[string][]any)

	for i, sib := range siblings {
		if sib.Kind() != jsonvalue.KindObject {
			continue
		}
		for key, val := range sib.Fields() {
			bm := presence[key]
			if bm == nil {
				bm = roaring.New()
				presence[key] = bm
				nulls[key] = roaring.New()
				kinds[key] = make(map[string]bool)
				distinct[key] = make(map[string]bool)
			}
			bm.Add(uint32(i))
			kinds[key][val.Kind().String()] = true

			if val.IsNull() {
				nulls[key].Add(uint32(i))
				continue
			}

			vk := valueKey(val)
			if !distinct[key][vk] {
				distinct[key][vk] = true
				if val.Kind().IsScalar() && len(examples[key]) < statsMaxExamples {
					examples[key] = append(examples[key], val.Interface())
				}
			}
		}
	}

	keys := make([]string, 0, len(presence))
	for k := range presence {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		kindList := make([]string, 0, len(kinds[key]))
		for k := range kinds[key] {
			kindList = append(kindList, k)
		}
		sort.Strings(kindList)

		present := presence[key].GetCardinality()
		*stats = append(*stats, FieldStat{
			Path:          path,
			Kinds:         kindList,
			Frequency:     float64(present) / float64(total),
			Required:      present == total && nulls[key].IsEmpty(),
			Nullable:      !nulls[key].IsEmpty(),
			DistinctCount: len(distinct[key]),
			Examples:      examples[key],
		})

		// Recurse into nested objects and arrays of objects.
		var nestedObjs []jsonvalue.Value
		var arrayItems []jsonvalue.Value
		for _, sib := range siblings {
			if sib.Kind() != jsonvalue.KindObject {
				continue
			}
			val, ok := sib.Fields()[key]
			if !ok {
				continue
			}
			switch val.Kind() {
			case jsonvalue.KindObject:
				nestedObjs = append(nestedObjs, val)
			case jsonvalue.KindArray:
				for _, item := range val.Elems() {
					if item.Kind() == jsonvalue.KindObject {
						arrayItems = append(arrayItems, item)
					}
				}
			}
		}
		if len(nestedObjs) > 0 {
			profileLevel(path, nestedObjs, depth+1, stats)
		}
		if len(arrayItems) > 0 {
			profileLevel(path+"[]", arrayItems, depth+1, stats)
		}
	}
}

// valueKey builds a distinctness key for a value.
func valueKey(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindString:
		return "s:" + v.StrVal()
	case jsonvalue.KindInt:
		return fmt.Sprintf("i:%d", v.IntVal())
	case jsonvalue.KindFloat:
		return fmt.Sprintf("f:%v", v.FloatVal())
	case jsonvalue.KindBool:
		return fmt.Sprintf("b:%v", v.BoolVal())
	default:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprintf("?:%v", v.Interface())
		}
		return "j:" + string(b)
	}
}
