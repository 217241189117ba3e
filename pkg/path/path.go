// ABOUTME: Immutable addressing scheme for properties inside a property tree
// ABOUTME: Paths are ordered name[index] elements, absolute or relative

package path

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Separator joins path elements
	Separator = "."

	illegalNameChars = ".[]"
)

// Element addresses one occurrence of a named property
type Element struct {
	Name  string
	Index int
}

// NewElement creates a validated path element
func NewElement(name string, index int) (Element, error) {
	if err := ValidateName(name); err != nil {
		return Element{}, err
	}
	if index < 0 {
		return Element{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return Element{Name: name, Index: index}, nil
}

// String renders "name" for the first occurrence and "name[index]" otherwise
func (e Element) String() string {
	if e.Index == 0 {
		return e.Name
	}
	return e.Name + "[" + strconv.Itoa(e.Index) + "]"
}

// ValidateName rejects blank names and names with path syntax characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: blank name", ErrInvalidName)
	}
	if strings.ContainsAny(name, illegalNameChars) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Path is an ordered list of elements. The zero value is the empty relative path.
type Path struct {
	elements []Element
	absolute bool
	str      string
}

// Root is the absolute path with no elements
var Root = Path{absolute: true, str: Separator}

// New builds a path from elements, validating every element name
func New(absolute bool, elements ...Element) (Path, error) {
	for _, e := range elements {
		if err := ValidateName(e.Name); err != nil {
			return Path{}, err
		}
		if e.Index < 0 {
			return Path{}, fmt.Errorf("%w: %d", ErrInvalidIndex, e.Index)
		}
	}
	return build(absolute, elements), nil
}

// MustNew is like New but panics on invalid elements
func MustNew(absolute bool, elements ...Element) Path {
	p, err := New(absolute, elements...)
	if err != nil {
		panic(err)
	}
	return p
}

func build(absolute bool, elements []Element) Path {
	elems := make([]Element, len(elements))
	copy(elems, elements)

	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	str := strings.Join(parts, Separator)
	if absolute {
		str = Separator + str
	}
	return Path{elements: elems, absolute: absolute, str: str}
}

// Parse reads ".a.b[2].c" (absolute) or "a.b[2].c" (relative)
func Parse(s string) (Path, error) {
	absolute := strings.HasPrefix(s, Separator)
	body := strings.TrimPrefix(s, Separator)
	if body == "" {
		if absolute {
			return Root, nil
		}
		return Path{}, nil
	}

	segments := strings.Split(body, Separator)
	elements := make([]Element, 0, len(segments))
	for _, seg := range segments {
		e, err := parseElement(seg)
		if err != nil {
			return Path{}, fmt.Errorf("%w %q: %w", ErrInvalidPath, s, err)
		}
		elements = append(elements, e)
	}
	return build(absolute, elements), nil
}

// MustParse is like Parse but panics on malformed input
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parseElement(seg string) (Element, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return NewElement(seg, 0)
	}
	if !strings.HasSuffix(seg, "]") {
		return Element{}, fmt.Errorf("%w: unterminated index in %q", ErrInvalidIndex, seg)
	}
	index, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return Element{}, fmt.Errorf("%w: %q", ErrInvalidIndex, seg)
	}
	return NewElement(seg[:open], index)
}

// FromParent appends elements to a parent path, keeping its absoluteness
func FromParent(parent Path, elements ...Element) Path {
	all := make([]Element, 0, len(parent.elements)+len(elements))
	all = append(all, parent.elements...)
	all = append(all, elements...)
	return build(parent.absolute, all)
}

// RemoveFirstElement drops the first element; the result is always relative
func (p Path) RemoveFirstElement() Path {
	if len(p.elements) == 0 {
		return build(false, nil)
	}
	return build(false, p.elements[1:])
}

// Parent drops the last element
func (p Path) Parent() Path {
	if len(p.elements) == 0 {
		return p
	}
	return build(p.absolute, p.elements[:len(p.elements)-1])
}

// AsRelative returns the same elements as a relative path
func (p Path) AsRelative() Path {
	if !p.absolute {
		return p
	}
	return build(false, p.elements)
}

// AsAbsolute returns the same elements as an absolute path
func (p Path) AsAbsolute() Path {
	if p.absolute {
		return p
	}
	return build(true, p.elements)
}

// IsAbsolute reports whether the path starts at a tree root
func (p Path) IsAbsolute() bool { return p.absolute }

// Len returns the number of elements
func (p Path) Len() int { return len(p.elements) }

// IsEmpty reports whether the path has no elements
func (p Path) IsEmpty() bool { return len(p.elements) == 0 }

// Element returns the element at position i
func (p Path) Element(i int) Element { return p.elements[i] }

// FirstElement returns the first element, or false for an empty path
func (p Path) FirstElement() (Element, bool) {
	if len(p.elements) == 0 {
		return Element{}, false
	}
	return p.elements[0], true
}

// LastElement returns the last element, or false for an empty path
func (p Path) LastElement() (Element, bool) {
	if len(p.elements) == 0 {
		return Element{}, false
	}
	return p.elements[len(p.elements)-1], true
}

// Elements returns a copy of the elements
func (p Path) Elements() []Element {
	out := make([]Element, len(p.elements))
	copy(out, p.elements)
	return out
}

// Equal compares the rendered form, which covers absoluteness and every element
func (p Path) Equal(other Path) bool {
	return p.String() == other.String()
}

// String renders the path; absolute paths start with "."
func (p Path) String() string {
	if p.str == "" && p.absolute {
		return Separator
	}
	return p.str
}

// MarshalText implements encoding.TextMarshaler
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
