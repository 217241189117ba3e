// ABOUTME: Structural diff between two property sets
// ABOUTME: Forward walk finds removals and modifications, inverse walk finds additions

package property

import "github.com/nainya/proptree/pkg/path"

// Modification pairs the old and new property found at the same path
type Modification struct {
	Path path.Path
	Old  *Property
	New  *Property
}

// Difference lists what changed going from one set to another. Properties
// in Added belong to the other set; Removed and Modified.Old to this one.
type Difference struct {
	Added    []*Property
	Removed  []*Property
	Modified []Modification
}

// IsEmpty reports two structurally equal sets
func (d Difference) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Len returns the total number of entries
func (d Difference) Len() int {
	return len(d.Added) + len(d.Removed) + len(d.Modified)
}

// Diff compares s (old) against other (new). Each name[index] position is
// reported at most once across the whole recursive walk.
func (s *PropertySet) Diff(other *PropertySet) Difference {
	checked := make(map[string]struct{})
	forward := diffSets(s, other, path.Root, checked)
	inverse := diffSets(other, s, path.Root, checked)
	forward.Added = append(forward.Added, inverse.Removed...)
	return forward
}

// diffSets walks a's properties looking each one up in b
func diffSets(a, b *PropertySet, at path.Path, checked map[string]struct{}) Difference {
	var d Difference
	a.ForEach(func(p *Property) bool {
		elem := p.PathElement()
		pos := path.FromParent(at, elem)
		key := pos.String()
		if _, done := checked[key]; done {
			return true
		}

		var q *Property
		if b != nil {
			q = b.GetProperty(elem.Name, elem.Index)
		}
		if q == nil {
			d.Removed = append(d.Removed, p)
			return true
		}

		pSet, pIsSet := p.GetPropertySet()
		qSet, qIsSet := q.GetPropertySet()
		if pIsSet && qIsSet {
			nested := diffSets(pSet, qSet, pos, checked)
			d.Added = append(d.Added, nested.Added...)
			d.Removed = append(d.Removed, nested.Removed...)
			d.Modified = append(d.Modified, nested.Modified...)
			return true
		}

		checked[key] = struct{}{}
		if !p.value.Equal(q.value) {
			d.Modified = append(d.Modified, Modification{Path: pos, Old: p, New: q})
		}
		return true
	})
	return d
}
