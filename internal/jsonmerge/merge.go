package jsonmerge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Merge combines template into target and returns the resulting document.
//
// A nil target means the target is absent: the template is returned as-is,
// the same bytes a plain copy would produce. Otherwise the result holds every
// target key with its target value, followed by the keys that only the
// template defines. Target keys keep their original order; template-only
// keys follow in template order.
//
// Both documents must be top-level JSON objects. Merge has no side effects.
func Merge(target, template []byte) ([]byte, error) {
	tmpl, err := parseObject(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateJSON, err)
	}

	if target == nil {
		return bytes.Clone(template), nil
	}

	tgt, err := parseObject(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTargetJSON, err)
	}

	merged := tgt.clone()
	for _, m := range tmpl.members {
		if !merged.has(m.key) {
			merged.set(m.key, m.value)
		}
	}

	out, err := merged.marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMergeProducedInvalidJSON, err)
	}
	if !json.Valid(out) {
		return nil, ErrMergeProducedInvalidJSON
	}

	return out, nil
}

// AddedKeys returns the template keys that Merge would add to target, in
// template order. A nil target reports every template key.
func AddedKeys(target, template []byte) ([]string, error) {
	tmpl, err := parseObject(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateJSON, err)
	}

	var tgt *object
	if target == nil {
		tgt = newObject()
	} else if tgt, err = parseObject(target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTargetJSON, err)
	}

	var added []string
	for _, m := range tmpl.members {
		if !tgt.has(m.key) {
			added = append(added, m.key)
		}
	}
	return added, nil
}
