// Package jsoneq implements the structural equality and subset rules the
// analyzer and executor use to decide whether a config merge or set is
// already satisfied.
//
// Equality is order-sensitive for arrays and order-insensitive for object
// keys, matching what reflect.DeepEqual already gives for values decoded by
// encoding/json into map[string]any/[]any/string/float64/bool/nil - no
// third-party deep-equal or JSON-diff library appears anywhere in the
// example pack, and reflect.DeepEqual already has exactly the semantics
// this comparison needs.
package jsoneq

import "reflect"

// Equal reports whether a and b are structurally equal JSON values.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// IsSubset reports whether value is a deep subset of target: every key in
// value recursively equals the corresponding key in target. Arrays compare
// by full deep equality (a subset relationship is not defined for arrays).
// A non-object value is a subset of target only when it equals target.
func IsSubset(value, target any) bool {
	valueObj, valueIsObj := value.(map[string]any)
	if !valueIsObj {
		return Equal(value, target)
	}

	targetObj, targetIsObj := target.(map[string]any)
	if !targetIsObj {
		return false
	}

	for key, subValue := range valueObj {
		targetValue, present := targetObj[key]
		if !present {
			return false
		}
		if !IsSubset(subValue, targetValue) {
			return false
		}
	}
	return true
}

// DeepMerge combines incoming into base, recursing into nested objects and
// overwriting everything else (scalars, arrays, and type mismatches). base
// is mutated and returned.
func DeepMerge(base, incoming map[string]any) map[string]any {
	for key, incomingValue := range incoming {
		baseValue, present := base[key]
		if !present {
			base[key] = incomingValue
			continue
		}

		baseObj, baseIsObj := baseValue.(map[string]any)
		incomingObj, incomingIsObj := incomingValue.(map[string]any)
		if baseIsObj && incomingIsObj {
			base[key] = DeepMerge(baseObj, incomingObj)
			continue
		}
		base[key] = incomingValue
	}
	return base
}

// ShallowMerge combines incoming into base with a single-level spread:
// every key in incoming overwrites the corresponding key in base. base is
// mutated and returned.
func ShallowMerge(base, incoming map[string]any) map[string]any {
	for key, value := range incoming {
		base[key] = value
	}
	return base
}
