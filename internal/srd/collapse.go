package srd

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Collapse flattens a JSON-derived value into a single string containing
// every string leaf found anywhere in it, for text search of records.
//
// Lists are visited in index order and objects in document key order.
// Each string-bearing child is prefixed with a paragraph separator;
// children without strings contribute nothing, so a value containing no
// strings collapses to the empty string.
func Collapse(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	if !v.IsArray() && !v.IsObject() {
		return ""
	}
	var b strings.Builder
	v.ForEach(func(_, item gjson.Result) bool {
		if collapsed := Collapse(item); collapsed != "" {
			b.WriteString("\n\n")
			b.WriteString(collapsed)
		}
		return true
	})
	return b.String()
}
