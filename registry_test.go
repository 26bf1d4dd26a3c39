package listkit

import "testing"

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("custom", FieldTypeDescriptor{New: newTextField})
	r.Register("Custom", FieldTypeDescriptor{New: newNumberField})

	d, ok := r.Resolve("CUSTOM")
	assertTrue(t, ok, "resolve failed")
	assertStr(t, d.TypeID, "custom")

	e := New(EngineParams{Logger: nopLogger{}})
	e.Registry().Register("custom", FieldTypeDescriptor{New: newNumberField})
	l := e.List("Thing")
	assertNoErr(t, l.Add(FieldDef{"x", FieldOptions{Type: "custom"}}))
	assertStr(t, l.Field("x").Type(), "number")
}

func TestRegistryResolveShapes(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	r := e.Registry()

	if _, ok := r.Resolve("telepathy"); ok {
		t.Fatal("unknown id resolved")
	}
	if _, ok := r.Resolve(nil); ok {
		t.Fatal("nil resolved")
	}
	d, ok := r.Resolve(3.14)
	assertTrue(t, ok, "float shortcut failed")
	assertStr(t, d.TypeID, "number")
}

// user-registered types plug into the full lifecycle without touching
// the list or field core
func TestCustomFieldTypeEndToEnd(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	e.Registry().Register("slug", FieldTypeDescriptor{
		New: func(l *List, path string, opts FieldOptions) Field {
			return newTextField(l, path, opts)
		},
	})
	l := e.List("Page")
	assertNoErr(t, l.Add(FieldDef{"slug", FieldOptions{Type: "slug"}}))
	assertNoErr(t, l.Register())
	item := saveDoc(t, l, nil, Document{"slug": "hello-world"})
	assertStr(t, l.Field("slug").Format(item), "hello-world")
}
