package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BaSui01/llmxml/schema"
)

// coerce fills a scalar value's coercion state from its accumulated raw
// text. open reports whether the scalar was still unterminated when input
// ended: an open scalar with no text is Unset rather than Invalid, since
// nothing has been observed yet.
func coerce(v *Value, d *schema.Descriptor, raw string, open bool) {
	raw = strings.TrimSpace(raw)
	v.Raw = raw
	v.Open = open

	if raw == "" {
		if d.Scalar == schema.ScalarString && !open {
			// A closed empty tag is a legitimate empty string.
			v.State = Valid
			v.Scalar = ""
			return
		}
		if open {
			v.State = Unset
			return
		}
		v.State = Invalid
		v.Reason = fmt.Sprintf("empty %s value", d.Scalar)
		return
	}

	switch d.Scalar {
	case schema.ScalarString:
		v.State = Valid
		v.Scalar = raw
	case schema.ScalarInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			v.State = Invalid
			v.Reason = fmt.Sprintf("%q is not an integer", raw)
			return
		}
		v.State = Valid
		v.Scalar = n
	case schema.ScalarFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v.State = Invalid
			v.Reason = fmt.Sprintf("%q is not a number", raw)
			return
		}
		v.State = Valid
		v.Scalar = f
	case schema.ScalarBool:
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			v.State = Invalid
			v.Reason = fmt.Sprintf("%q is not a boolean", raw)
			return
		}
		v.State = Valid
		v.Scalar = b
	case schema.ScalarEnum:
		for _, lit := range d.Enum {
			if raw == lit {
				v.State = Valid
				v.Scalar = raw
				return
			}
		}
		v.State = Invalid
		v.Reason = fmt.Sprintf("%q is not one of %s", raw, strings.Join(d.Enum, ", "))
	}
}
