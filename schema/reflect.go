package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/BaSui01/llmxml/types"
)

// Enumerator is implemented by named string types whose values form a closed
// literal set. Fields of such a type derive as enum scalars coerced by exact
// literal match.
type Enumerator interface {
	EnumValues() []string
}

var enumeratorType = reflect.TypeOf((*Enumerator)(nil)).Elem()

// typeCache holds one descriptor tree per Go type for the life of the
// process. Population is idempotent: when two goroutines race to build the
// same tree, LoadOrStore keeps the winner and the loser's tree is dropped.
var typeCache sync.Map // reflect.Type -> *Descriptor

// unionRegistry maps interface types to their declared alternatives.
var unionRegistry sync.Map // reflect.Type -> []UnionAlternative

// UnionAlternative binds one tag name to the concrete type it instantiates.
type UnionAlternative struct {
	Tag  string
	Type reflect.Type
}

// Alt declares a union alternative: the tag name and the concrete struct
// type it parses into.
func Alt[T any](tag string) UnionAlternative {
	return UnionAlternative{Tag: tag, Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// RegisterUnion declares the alternatives of the interface type I. Fields of
// type I derive as unions over these alternatives, in registration order.
// Registration replaces any previous entry for I; descriptor trees already
// cached are unaffected.
func RegisterUnion[I any](alternatives ...UnionAlternative) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return types.NewError(types.ErrDescriptor, fmt.Sprintf("%s is not an interface type", iface))
	}
	if len(alternatives) == 0 {
		return types.NewError(types.ErrDescriptor, fmt.Sprintf("union %s declares no alternatives", iface))
	}
	for _, alt := range alternatives {
		if alt.Tag == "" || alt.Type == nil {
			return types.NewError(types.ErrDescriptor, fmt.Sprintf("union %s has an alternative without tag or type", iface))
		}
		if alt.Type.Kind() != reflect.Struct {
			return types.NewError(types.ErrDescriptor, fmt.Sprintf("union %s alternative %q is not a struct type", iface, alt.Tag))
		}
		if !alt.Type.Implements(iface) && !reflect.PointerTo(alt.Type).Implements(iface) {
			return types.NewError(types.ErrDescriptor, fmt.Sprintf("union %s alternative %q does not implement it", iface, alt.Tag))
		}
	}
	unionRegistry.Store(iface, alternatives)
	return nil
}

// ForType derives (or returns the cached) descriptor tree for the struct
// type T. The root object's tag name is the snake_case of the type name.
func ForType[T any]() (*Descriptor, error) {
	return forType(reflect.TypeOf((*T)(nil)).Elem())
}

func forType(t reflect.Type) (*Descriptor, error) {
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*Descriptor), nil
	}
	d, err := buildType(t, snakeCase(t.Name()), "", make(map[reflect.Type]bool))
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	actual, _ := typeCache.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

func buildType(t reflect.Type, name, description string, path map[reflect.Type]bool) (*Descriptor, error) {
	if t.Kind() == reflect.Pointer {
		inner, err := buildType(t.Elem(), name, description, path)
		if err != nil {
			return nil, err
		}
		d := Optional(inner)
		d.Type = t
		return d, nil
	}

	if literals, ok := enumLiterals(t); ok {
		d := Enum(name, description, literals...)
		d.Type = t
		d.TypeName = t.Name()
		return d, nil
	}

	switch t.Kind() {
	case reflect.String:
		d := String(name, description)
		d.Type = t
		return d, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		d := Int(name, description)
		d.Type = t
		return d, nil
	case reflect.Float32, reflect.Float64:
		d := Float(name, description)
		d.Type = t
		return d, nil
	case reflect.Bool:
		d := Bool(name, description)
		d.Type = t
		return d, nil
	case reflect.Slice:
		elemName := elementName(t.Elem(), name)
		elem, err := buildType(t.Elem(), elemName, "", path)
		if err != nil {
			return nil, err
		}
		d := List(name, description, elem)
		d.Type = t
		return d, nil
	case reflect.Struct:
		return buildStruct(t, name, description, path)
	case reflect.Interface:
		return buildUnion(t, name, description, path)
	default:
		return nil, types.NewError(types.ErrDescriptor,
			fmt.Sprintf("unsupported type %s for field %q", t, name))
	}
}

func buildStruct(t reflect.Type, name, description string, path map[reflect.Type]bool) (*Descriptor, error) {
	if path[t] {
		return nil, types.NewError(types.ErrDescriptor,
			fmt.Sprintf("type %s references itself; schemas must be acyclic", t))
	}
	path[t] = true
	defer delete(path, t)

	d := &Descriptor{
		Name:        name,
		Kind:        KindObject,
		Description: description,
		Required:    true,
		TypeName:    t.Name(),
		Type:        t,
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tagName, opts := parseTag(f.Tag.Get("llmxml"))
		if tagName == "-" {
			continue
		}
		if tagName == "" {
			tagName = snakeCase(f.Name)
		}
		child, err := buildField(f, tagName, opts, path)
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, child)
	}
	return d, nil
}

func buildField(f reflect.StructField, tagName string, opts map[string]string, path map[reflect.Type]bool) (*Descriptor, error) {
	child, err := buildType(f.Type, tagName, f.Tag.Get("desc"), path)
	if err != nil {
		return nil, err
	}
	if itemTag, ok := opts["item"]; ok && itemTag != "" {
		inner := child.Inner()
		if inner.Kind == KindList && inner.Elem != nil {
			elem := *inner.Elem
			elem.Name = itemTag
			inner.Elem = &elem
		}
	}
	if _, ok := opts["optional"]; ok {
		child.Required = false
	}
	child.Index = f.Index
	return child, nil
}

func buildUnion(t reflect.Type, name, description string, path map[reflect.Type]bool) (*Descriptor, error) {
	reg, ok := unionRegistry.Load(t)
	if !ok {
		return nil, types.NewError(types.ErrDescriptor,
			fmt.Sprintf("interface %s has no registered union alternatives", t))
	}
	d := &Descriptor{
		Name:        name,
		Kind:        KindUnion,
		Description: description,
		Required:    true,
		Type:        t,
	}
	for _, alt := range reg.([]UnionAlternative) {
		branch, err := buildType(alt.Type, alt.Tag, "", path)
		if err != nil {
			return nil, err
		}
		d.Alternatives = append(d.Alternatives, branch)
	}
	return d, nil
}

// enumLiterals reports whether t is a named string type implementing
// Enumerator and returns its literal set.
func enumLiterals(t reflect.Type) ([]string, bool) {
	if t.Kind() != reflect.String || t.Name() == "" {
		return nil, false
	}
	switch {
	case t.Implements(enumeratorType):
		return reflect.New(t).Elem().Interface().(Enumerator).EnumValues(), true
	case reflect.PointerTo(t).Implements(enumeratorType):
		return reflect.New(t).Interface().(Enumerator).EnumValues(), true
	}
	return nil, false
}

// elementName picks the tag name for a list element: struct elements use
// their own type name, everything else singularizes the field name.
func elementName(elem reflect.Type, listName string) string {
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct && elem.Name() != "" {
		return snakeCase(elem.Name())
	}
	if elem.Kind() == reflect.Interface {
		// Union elements bind on alternative tags, not the element name.
		return listName
	}
	return singular(listName)
}

func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "s") && len(name) > 1 && !strings.HasSuffix(name, "ss"):
		return name[:len(name)-1]
	default:
		return name
	}
}

func parseTag(tag string) (string, map[string]string) {
	parts := strings.Split(tag, ",")
	opts := make(map[string]string, len(parts))
	for _, p := range parts[1:] {
		if k, v, found := strings.Cut(p, "="); found {
			opts[k] = v
		} else {
			opts[p] = ""
		}
	}
	return strings.TrimSpace(parts[0]), opts
}

// snakeCase converts CamelCase names to snake_case tag names, keeping
// initialisms together: "NewFilePath" -> "new_file_path", "HTTPStatus" ->
// "http_status".
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
