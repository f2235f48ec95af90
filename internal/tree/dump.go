package tree

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Dump writes one line describing v:
//
//	<tabs>ClinVarSet.Title - some text - k1=v1 k2=v2
//
// indented by depth-1 tabs. An element whose first child is not character
// data prints "No text"; blank leading text prints as an empty field.
// Missing attributes print "No attributes". Attributes are sorted by name.
func Dump(w io.Writer, v Visit) error {
	text := v.Text
	if !v.HasText {
		text = "No text"
	}
	attrs := "No attributes"
	if len(v.Attrs) > 0 {
		keys := make([]string, 0, len(v.Attrs))
		for k := range v.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + v.Attrs[k]
		}
		attrs = strings.Join(pairs, " ")
	}
	indent := 0
	if v.Depth > 1 {
		indent = v.Depth - 1
	}
	_, err := fmt.Fprintf(w, "%s%s - %s - %s\n", strings.Repeat("\t", indent), strings.Join(v.Path, "."), text, attrs)
	return err
}
