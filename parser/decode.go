package parser

import (
	"fmt"
	"reflect"

	"github.com/BaSui01/llmxml/schema"
	"github.com/BaSui01/llmxml/types"
)

// Decode populates out (a non-nil pointer to the Go type the descriptor
// tree was derived from) with the value tree. Unset and Invalid positions
// leave their fields zero-valued, so partial trees decode to best-effort
// structs. Decode requires a reflect-derived tree; declaratively built
// descriptors carry no Go types and should be read via Interface.
func (v *Value) Decode(out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return types.NewError(types.ErrDescriptor, "decode target must be a non-nil pointer")
	}
	if v == nil || v.Desc == nil {
		return nil
	}
	return decodeInto(v.Desc, v, rv.Elem())
}

func decodeInto(d *schema.Descriptor, v *Value, rv reflect.Value) error {
	if v == nil {
		return nil
	}
	inner := d.Inner()

	// Optionals derive from pointer fields: allocate only when content was
	// observed, so nil still means "absent".
	if rv.Kind() == reflect.Pointer {
		if v.State == Unset && len(v.Order) == 0 && len(v.Items) == 0 && v.Branch == "" {
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	switch inner.Kind {
	case schema.KindScalar:
		return decodeScalar(inner, v, rv)
	case schema.KindObject:
		if rv.Kind() != reflect.Struct {
			return types.NewError(types.ErrDescriptor,
				fmt.Sprintf("cannot decode object %q into %s", inner.Name, rv.Type()))
		}
		for _, f := range inner.Fields {
			fv := v.FieldValue(f.Inner().Name)
			if fv == nil {
				continue
			}
			if f.Index == nil {
				return types.NewError(types.ErrDescriptor,
					fmt.Sprintf("field %q has no struct index; descriptor was not reflect-derived", f.Inner().Name))
			}
			if err := decodeInto(f, fv, rv.FieldByIndex(f.Index)); err != nil {
				return err
			}
		}
		return nil
	case schema.KindList:
		if rv.Kind() != reflect.Slice {
			return types.NewError(types.ErrDescriptor,
				fmt.Sprintf("cannot decode list %q into %s", inner.Name, rv.Type()))
		}
		out := reflect.MakeSlice(rv.Type(), len(v.Items), len(v.Items))
		for i, item := range v.Items {
			if err := decodeInto(inner.Elem, item, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case schema.KindUnion:
		if v.Branch == "" {
			return nil
		}
		branch := inner.Alternative(v.Branch)
		if branch == nil || branch.Type == nil {
			return types.NewError(types.ErrDescriptor,
				fmt.Sprintf("union %q branch %q has no Go type", inner.Name, v.Branch))
		}
		concrete := reflect.New(branch.Type).Elem()
		if err := decodeInto(branch, v.Child, concrete); err != nil {
			return err
		}
		switch {
		case concrete.Type().AssignableTo(rv.Type()):
			rv.Set(concrete)
		case concrete.Addr().Type().AssignableTo(rv.Type()):
			rv.Set(concrete.Addr())
		default:
			return types.NewError(types.ErrDescriptor,
				fmt.Sprintf("branch type %s is not assignable to %s", concrete.Type(), rv.Type()))
		}
		return nil
	default:
		return nil
	}
}

func decodeScalar(d *schema.Descriptor, v *Value, rv reflect.Value) error {
	if v.State != Valid {
		return nil
	}
	switch d.Scalar {
	case schema.ScalarString, schema.ScalarEnum:
		if rv.Kind() != reflect.String {
			return scalarMismatch(d, rv)
		}
		rv.SetString(v.Scalar.(string))
	case schema.ScalarInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			rv.SetInt(v.Scalar.(int64))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			rv.SetUint(uint64(v.Scalar.(int64)))
		default:
			return scalarMismatch(d, rv)
		}
	case schema.ScalarFloat:
		if rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64 {
			return scalarMismatch(d, rv)
		}
		rv.SetFloat(v.Scalar.(float64))
	case schema.ScalarBool:
		if rv.Kind() != reflect.Bool {
			return scalarMismatch(d, rv)
		}
		rv.SetBool(v.Scalar.(bool))
	}
	return nil
}

func scalarMismatch(d *schema.Descriptor, rv reflect.Value) error {
	return types.NewError(types.ErrDescriptor,
		fmt.Sprintf("cannot decode %s scalar %q into %s", d.Scalar, d.Name, rv.Type()))
}
