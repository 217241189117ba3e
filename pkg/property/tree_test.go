// ABOUTME: Tests for property trees, sets and path addressing
// ABOUTME: Covers construction, lookup, nesting, attach/detach and validation

package property

import (
	"errors"
	"testing"

	"github.com/nainya/proptree/pkg/path"
	"go.uber.org/multierr"
)

func buildSampleTree(t *testing.T) *PropertyTree {
	t.Helper()
	tree := NewTree()
	if _, err := tree.AddString("title", "Hello"); err != nil {
		t.Fatalf("Failed to add title: %v", err)
	}
	if _, err := tree.AddStrings("tags", "red", "green", "blue"); err != nil {
		t.Fatalf("Failed to add tags: %v", err)
	}
	if _, err := tree.AddLong("count", 42); err != nil {
		t.Fatalf("Failed to add count: %v", err)
	}
	if _, err := tree.SetString("address.street", "Main Street"); err != nil {
		t.Fatalf("Failed to set street: %v", err)
	}
	if _, err := tree.SetLong("address.number", 7); err != nil {
		t.Fatalf("Failed to set number: %v", err)
	}
	return tree
}

func TestAddAndGetString(t *testing.T) {
	tree := NewTree()
	if _, err := tree.AddString("title", "Hello"); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	got, ok := tree.GetString("title")
	if !ok || got != "Hello" {
		t.Errorf("Expected Hello, got %q (ok=%v)", got, ok)
	}
	if size := tree.GetPropertyArray("title").Size(); size != 1 {
		t.Errorf("Expected array size 1, got %d", size)
	}
}

func TestSetPropertyByPathCreatesIntermediateSets(t *testing.T) {
	tree := buildSampleTree(t)

	street, ok := tree.GetString("address.street")
	if !ok || street != "Main Street" {
		t.Errorf("Expected Main Street, got %q", street)
	}

	p, err := tree.Lookup("address.number")
	if err != nil || p == nil {
		t.Fatal("Expected address.number to resolve")
	}
	if got := p.Path().String(); got != ".address.number" {
		t.Errorf("Expected .address.number, got %s", got)
	}

	address, ok := tree.GetPropertySet("address")
	if !ok {
		t.Fatal("Expected address to be a property set")
	}
	if address.Tree() != tree {
		t.Error("Expected nested set to belong to the tree")
	}
	if address.Property() != tree.GetProperty("address", 0) {
		t.Error("Expected nested set to know its container property")
	}

	abs := tree.GetPropertyByPath(path.MustParse(".address.street"))
	if abs == nil || abs != address.GetProperty("street", 0) {
		t.Error("Expected absolute path to resolve from the root")
	}
	if got := address.GetPropertyByPath(path.MustParse(".title")); got == nil {
		t.Error("Expected absolute path to resolve from a nested set")
	}
}

func TestSetPropertyThroughScalarFails(t *testing.T) {
	tree := NewTree()
	tree.AddString("a", "x")

	_, err := tree.SetString("a.b", "y")
	if !errors.Is(err, ErrNotPropertySet) {
		t.Errorf("Expected ErrNotPropertySet, got %v", err)
	}
}

func TestInvalidNamesAreRejected(t *testing.T) {
	tree := NewTree()
	for _, name := range []string{"", " ", "a.b", "a[0]", "x]"} {
		if _, err := tree.AddString(name, "v"); !errors.Is(err, path.ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName for %q, got %v", name, err)
		}
	}
	if tree.Root().Size() != 0 {
		t.Errorf("Expected no arrays, got %d", tree.Root().Size())
	}
}

func TestLookupMissingAndMalformed(t *testing.T) {
	tree := buildSampleTree(t)

	for _, ref := range []string{"missing", "tags[9]", "title.sub", "address[1].street"} {
		p, err := tree.Lookup(ref)
		if err != nil || p != nil {
			t.Errorf("Expected nil without error for %q, got %v (%v)", ref, p, err)
		}
	}
	for _, ref := range []string{"a..b", "x[", "tags[-1]", "a b.c]"} {
		if _, err := tree.Lookup(ref); err == nil {
			t.Errorf("Expected an error for malformed %q", ref)
		}
	}
	if got, ok := tree.GetString("tags[2]"); !ok || got != "blue" {
		t.Errorf("Expected blue, got %q", got)
	}
	if _, ok := tree.GetLong("title"); ok {
		t.Error("Expected typed getter to reject a string property")
	}
}

func TestLookupByInvalidNameFailsFast(t *testing.T) {
	tree := buildSampleTree(t)

	for _, name := range []string{"a.b", "x[", "x]", " "} {
		if _, err := tree.FindProperty(name, 0); !errors.Is(err, path.ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName from FindProperty(%q), got %v", name, err)
		}
		if _, err := tree.FindPropertyArray(name); !errors.Is(err, path.ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName from FindPropertyArray(%q), got %v", name, err)
		}
	}
	if p, err := tree.FindProperty("tags", 1); err != nil || p == nil {
		t.Errorf("Expected tags[1], got %v (%v)", p, err)
	}

	mustPanic := func(what string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, path.ErrInvalidName) {
				t.Errorf("Expected %s to panic with ErrInvalidName, got %v", what, r)
			}
		}()
		fn()
	}
	mustPanic("GetProperty", func() { tree.GetProperty("a.b", 0) })
	mustPanic("GetPropertyArray", func() { tree.GetPropertyArray("x[") })
	mustPanic("GetStrings", func() { tree.GetStrings("") })
	mustPanic("GetString", func() { tree.GetString("a..b") })
}

func TestTypedGettersListByName(t *testing.T) {
	tree := buildSampleTree(t)

	tags := tree.GetStrings("tags")
	if len(tags) != 3 || tags[0] != "red" || tags[2] != "blue" {
		t.Errorf("Unexpected tags: %v", tags)
	}
	if longs := tree.GetLongs("tags"); longs != nil {
		t.Errorf("Expected nil for mismatched type, got %v", longs)
	}

	tree.SetProperty("tags", 1, NullValue(TypeString))
	if tags := tree.GetStrings("tags"); len(tags) != 2 {
		t.Errorf("Expected nulls to be skipped, got %v", tags)
	}
}

func TestDetachedSet(t *testing.T) {
	set := NewPropertySet()
	if !set.IsDetached() {
		t.Error("Expected a fresh set to be detached")
	}
	if _, err := set.NewSet(); !errors.Is(err, ErrDetached) {
		t.Errorf("Expected ErrDetached from NewSet, got %v", err)
	}
	if _, err := set.AddPropertySet("child", nil); !errors.Is(err, ErrDetached) {
		t.Errorf("Expected ErrDetached from AddPropertySet, got %v", err)
	}
	if _, err := set.SetString("a.b", "x"); !errors.Is(err, ErrDetached) {
		t.Errorf("Expected ErrDetached from nested set, got %v", err)
	}
	if _, err := set.AddString("plain", "ok"); err != nil {
		t.Errorf("Expected scalar add on detached set to work, got %v", err)
	}
}

func TestAttachToTreeReachesDescendants(t *testing.T) {
	outer := NewPropertySet()
	middle := NewPropertySet()
	inner := NewPropertySet()
	inner.AddString("leaf", "v")
	if _, err := middle.AddProperty("inner", DataValue(inner)); err != nil {
		t.Fatalf("Failed to nest inner: %v", err)
	}
	if _, err := outer.AddProperty("middle", DataValue(middle)); err != nil {
		t.Fatalf("Failed to nest middle: %v", err)
	}

	tree := NewTree()
	outer.AttachToTree(tree)

	for name, s := range map[string]*PropertySet{"outer": outer, "middle": middle, "inner": inner} {
		if s.Tree() != tree {
			t.Errorf("Expected %s to be attached", name)
		}
	}
}

func TestReplacingNestedSetDetachesOld(t *testing.T) {
	tree := NewTree()
	p, err := tree.AddPropertySet("child", nil)
	if err != nil {
		t.Fatalf("Failed to add set: %v", err)
	}
	old, _ := p.GetPropertySet()

	replacement := tree.NewSet()
	if err := p.SetValue(DataValue(replacement)); err != nil {
		t.Fatalf("Failed to replace set: %v", err)
	}

	if old.Property() != nil || !old.IsDetached() {
		t.Error("Expected replaced set to be detached")
	}
	if replacement.Property() != p {
		t.Error("Expected replacement to be held by the property")
	}
}

func TestSetPlacementRules(t *testing.T) {
	tree := NewTree()
	shared := tree.NewSet()
	if _, err := tree.AddPropertySet("a", shared); err != nil {
		t.Fatalf("Failed to add set: %v", err)
	}

	if _, err := tree.AddPropertySet("b", shared); !errors.Is(err, ErrSetInUse) {
		t.Errorf("Expected ErrSetInUse for a held set, got %v", err)
	}
	if _, err := shared.AddProperty("self", DataValue(shared)); !errors.Is(err, ErrSetInUse) {
		t.Errorf("Expected ErrSetInUse for a self-containing set, got %v", err)
	}
	if _, err := shared.AddProperty("root", DataValue(tree.Root())); !errors.Is(err, ErrSetInUse) {
		t.Errorf("Expected ErrSetInUse for a tree root, got %v", err)
	}

	other := NewTree()
	if _, err := tree.AddPropertySet("c", other.NewSet()); !errors.Is(err, ErrForeignTree) {
		t.Errorf("Expected ErrForeignTree, got %v", err)
	}

	if tree.GetPropertyArray("b") != nil || tree.GetPropertyArray("c") != nil {
		t.Error("Expected failed adds to leave no empty arrays behind")
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Expected a valid tree, got %v", err)
	}
}

func TestTypeMismatchOnExistingArray(t *testing.T) {
	tree := NewTree()
	tree.AddString("a", "x")

	if _, err := tree.AddLong("a", 1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", err)
	}
	if err := tree.GetProperty("a", 0).SetValue(LongValue(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch from SetValue, got %v", err)
	}
}

func TestSkipNextNullValue(t *testing.T) {
	tree := NewTree()
	tree.Root().SkipNextNullValue()

	p, err := tree.AddProperty("a", StringValue("kept"))
	if err != nil || p == nil {
		t.Fatalf("Expected non-null value to be added, got %v", err)
	}

	p, err = tree.AddProperty("a", NullValue(TypeString))
	if err != nil || p != nil {
		t.Errorf("Expected first null to be skipped, got %v, %v", p, err)
	}

	p, err = tree.AddProperty("a", NullValue(TypeString))
	if err != nil || p == nil {
		t.Errorf("Expected second null to be stored, got %v", err)
	}
	if size := tree.GetPropertyArray("a").Size(); size != 2 {
		t.Errorf("Expected 2 properties, got %d", size)
	}
}

func TestIsEmpty(t *testing.T) {
	tree := NewTree()
	if !tree.Root().IsEmpty() {
		t.Error("Expected a new tree to be empty")
	}

	tree.AddString("blank", "")
	tree.AddBoolean("off", false)
	tree.AddProperty("none", NullValue(TypeLong))
	tree.AddPropertySet("nested", nil)
	if !tree.Root().IsEmpty() {
		t.Error("Expected blank, false, null and empty sets to count as empty")
	}

	tree.SetString("nested.text", "x")
	if tree.Root().IsEmpty() {
		t.Error("Expected a nested value to make the set non-empty")
	}
}

func TestResetNullsScalars(t *testing.T) {
	tree := buildSampleTree(t)
	if err := tree.Root().Reset(); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}

	if size := tree.Size(); size != 8 {
		t.Errorf("Expected structure to survive reset, got %d properties", size)
	}
	if !tree.GetProperty("title", 0).IsNull() {
		t.Error("Expected title to be null")
	}
	if p, _ := tree.Lookup("address.street"); p == nil || !p.IsNull() {
		t.Error("Expected nested street to be null")
	}
	if _, ok := tree.GetPropertySet("address"); !ok {
		t.Error("Expected address set to remain")
	}
}

func TestCopyEqualsOriginal(t *testing.T) {
	tree := buildSampleTree(t)
	c := tree.Copy()

	if !c.Equals(tree) || !tree.Equals(c) {
		t.Fatal("Expected copy to equal original")
	}
	address, _ := c.GetPropertySet("address")
	if address.Tree() != c {
		t.Error("Expected copied nested set to belong to the copy")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Expected copy to validate, got %v", err)
	}

	c.SetString("address.street", "Elm")
	if c.Equals(tree) {
		t.Error("Expected edits on the copy to break equality")
	}
	if street, _ := tree.GetString("address.street"); street != "Main Street" {
		t.Errorf("Expected original to be untouched, got %s", street)
	}
}

func TestEqualsIgnoresArrayOrder(t *testing.T) {
	a := NewTree()
	a.AddString("x", "1")
	a.AddLong("y", 2)

	b := NewTree()
	b.AddLong("y", 2)
	b.AddString("x", "1")

	if !a.Equals(b) {
		t.Error("Expected trees with the same arrays to be equal")
	}
}

func TestWalkVisitsParentsFirst(t *testing.T) {
	tree := buildSampleTree(t)

	var paths []string
	tree.Walk(func(p *Property) bool {
		paths = append(paths, p.Path().String())
		return true
	})
	want := []string{".title", ".tags", ".tags[1]", ".tags[2]", ".count", ".address", ".address.street", ".address.number"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
	if tree.Size() != len(want) {
		t.Errorf("Expected size %d, got %d", len(want), tree.Size())
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	tree := buildSampleTree(t)
	if err := tree.Validate(); err != nil {
		t.Fatalf("Expected a valid tree, got %v", err)
	}

	tags := tree.GetPropertyArray("tags")
	tags.props[2].index = 5
	tags.props[0].value = LongValue(1)

	err := tree.Validate()
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("Expected ErrInconsistent, got %v", err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("Expected 2 violations, got %d: %v", n, err)
	}
}
