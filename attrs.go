package htmlsketch

import (
	"fmt"
	"strings"
)

// AttrBuckets holds an element's attributes split into shorthand groups.
type AttrBuckets struct {
	IDs     []string
	Classes []string
	Props   []string // name="value", value kept verbatim
}

// ClassifyAttrs partitions attrs in their given order: id values, whitespace
// separated class tokens and every other attribute as a name="value" pair.
func ClassifyAttrs(attrs []Attribute) AttrBuckets {
	var b AttrBuckets
	for _, attr := range attrs {
		switch attr.Name {
		case "class":
			b.Classes = append(b.Classes, strings.Fields(attr.Value)...)
		case "id":
			b.IDs = append(b.IDs, attr.Value)
		default:
			b.Props = append(b.Props, fmt.Sprintf(`%s="%s"`, attr.Name, attr.Value))
		}
	}
	return b
}

// IDString renders the ids as "#a#b", or "" when there are none.
func (b AttrBuckets) IDString() string {
	return joinLeading(b.IDs, "#")
}

// ClassString renders the classes as ".a.b", or "".
func (b AttrBuckets) ClassString() string {
	return joinLeading(b.Classes, ".")
}

// PropString renders the remaining attributes with a leading space, or "".
func (b AttrBuckets) PropString() string {
	return joinLeading(b.Props, " ")
}

// joinLeading places sep in front of every element.
func joinLeading(elems []string, sep string) string {
	if len(elems) == 0 {
		return ""
	}
	return sep + strings.Join(elems, sep)
}
