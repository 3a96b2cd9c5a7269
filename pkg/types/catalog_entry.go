package types

import (
	"fmt"
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// CanonicalizeResourceTypeName canonicalises a resource type name to
// TitleCase segments separated by "::", per §3: "notify" -> "Notify",
// "apt::package" -> "Apt::Package".
func CanonicalizeResourceTypeName(name string) string {
	segs := strings.Split(name, "::")
	for i, s := range segs {
		if s == "" {
			continue
		}
		segs[i] = strings.ToUpper(s[:1]) + s[1:]
	}
	return strings.Join(segs, "::")
}

// ResourceType is Resource(type_name?, title?). Both empty denotes the
// abstract Resource kind; a name with no title matches any title of that
// type; both present requires equality after canonicalisation (§3).
type ResourceType struct {
	TypeName string
	Title    string
	HasTitle bool
}

// NewResourceType builds Resource[typeName] or Resource[typeName,title].
// An empty typeName builds the abstract Resource type.
func NewResourceType(typeName, title string, hasTitle bool) *ResourceType {
	canon := ""
	if typeName != "" {
		canon = CanonicalizeResourceTypeName(typeName)
	}
	return &ResourceType{TypeName: canon, Title: title, HasTitle: hasTitle}
}

func (t *ResourceType) Kind() Kind { return KindResource }

func (t *ResourceType) String() string {
	if t.TypeName == "" {
		return "Resource"
	}
	if !t.HasTitle {
		return fmt.Sprintf("Resource[%s]", t.TypeName)
	}
	return fmt.Sprintf("Resource[%s, '%s']", t.TypeName, t.Title)
}

func (t *ResourceType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.TypeValue {
		return false
	}
	o, ok := v.AsType().(*ResourceType)
	if !ok {
		return false
	}
	if t.TypeName == "" {
		return true
	}
	if t.TypeName != o.TypeName {
		return false
	}
	if !t.HasTitle {
		return true
	}
	return o.HasTitle && t.Title == o.Title
}

func (t *ResourceType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindResource, o.Kind())
	case *ResourceType:
		if t.Equal(o) {
			return false
		}
		if o.TypeName == "" {
			return t.TypeName != ""
		}
		if o.TypeName != t.TypeName {
			return false
		}
		return t.HasTitle && !o.HasTitle
	default:
		return false
	}
}

func (t *ResourceType) Equal(other value.TypeRef) bool {
	o, ok := other.(*ResourceType)
	return ok && t.TypeName == o.TypeName && t.HasTitle == o.HasTitle &&
		(!t.HasTitle || t.Title == o.Title)
}

// ClassType is the Class[name] alternative: a singleton-declared grouping
// of resource declarations, itself addressable as a catalog entry. An
// empty Name denotes the abstract Class kind.
type ClassType struct {
	Name string
}

func NewClassType(name string) *ClassType {
	return &ClassType{Name: name}
}

func (t *ClassType) Kind() Kind { return KindClass }

func (t *ClassType) String() string {
	if t.Name == "" {
		return "Class"
	}
	return fmt.Sprintf("Class[%s]", t.Name)
}

func (t *ClassType) IsInstance(v value.Value) bool {
	v = v.Deref()
	if v.Kind() != value.TypeValue {
		return false
	}
	o, ok := v.AsType().(*ClassType)
	if !ok {
		return false
	}
	if t.Name == "" {
		return true
	}
	return t.Name == o.Name
}

func (t *ClassType) IsSpecialization(other Type) bool {
	switch o := other.(type) {
	case *simpleType:
		if o.Kind() == KindAny {
			return true
		}
		return specializesAgainstUmbrella(KindClass, o.Kind())
	case *ClassType:
		if t.Equal(o) {
			return false
		}
		return o.Name == "" && t.Name != ""
	default:
		return false
	}
}

func (t *ClassType) Equal(other value.TypeRef) bool {
	o, ok := other.(*ClassType)
	return ok && t.Name == o.Name
}
