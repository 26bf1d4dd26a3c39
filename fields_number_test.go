package listkit

import "testing"

func TestNumberUpdateParses(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("views")

	item := Document{}
	f.UpdateItem(item, Document{"views": "1,234"})
	if item["views"] != 1234.0 {
		t.Fatalf("got %v", item["views"])
	}
	f.UpdateItem(item, Document{"views": 56})
	if item["views"] != 56.0 {
		t.Fatalf("got %v", item["views"])
	}
}

func TestNumberInvalidInputStoresNil(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("views")

	item := Document{"views": 10.0}
	f.UpdateItem(item, Document{"views": "not a number"})
	if item["views"] != nil {
		t.Fatalf("invalid input must clear the value, got %v", item["views"])
	}
}

func TestNumberValidateBounds(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	l := e.List("Stat")
	assertNoErr(t, l.Add(FieldDef{"score", FieldOptions{Type: "number", Min: Float(0), Max: Float(100)}}))
	f := l.Field("score")

	ok, _ := f.ValidateInput(Document{"score": 150})
	assertTrue(t, !ok, "out-of-range accepted")
	ok, _ = f.ValidateInput(Document{"score": "abc"})
	assertTrue(t, !ok, "unparseable accepted")
	ok, _ = f.ValidateInput(Document{"score": "42"})
	assertTrue(t, ok, "valid rejected")
	ok, _ = f.ValidateInput(Document{"score": ""})
	assertTrue(t, ok, "empty must be valid")
}

func TestNumberFormatGrouping(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("views")

	assertStr(t, f.Format(Document{"views": 1234567.0}), "1,234,567")
	assertStr(t, f.Format(Document{"views": -1234.5}), "-1,234.5")
	assertStr(t, f.Format(Document{"views": 42.0}), "42")
	assertStr(t, f.Format(Document{}), "")
}

func TestNumberFormatNone(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	l := e.List("Stat")
	assertNoErr(t, l.Add(FieldDef{"raw", FieldOptions{Type: "number", FormatNone: true}}))
	assertStr(t, l.Field("raw").Format(Document{"raw": 1234567.0}), "1234567")
}

func TestNumberFilterConditions(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("views").(Filterable)

	c := f.FilterCondition(Filter{Value: "10"})
	if c.Op != OpEq || c.Value != 10.0 {
		t.Fatalf("equals: %+v", c)
	}
	c = f.FilterCondition(Filter{Mode: "between", After: 1, Before: 5})
	if c.Op != OpBetween || c.Low != 1.0 || c.High != 5.0 {
		t.Fatalf("between: %+v", c)
	}
	c = f.FilterCondition(Filter{Value: nil})
	if c.Op != OpEmpty {
		t.Fatalf("empty: %+v", c)
	}
}

func TestNumberFormatIdempotent(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("views")

	item := Document{}
	f.UpdateItem(item, Document{"views": "9,876"})
	first := f.Format(item)
	// feeding the formatted value back through the codec is stable
	f.UpdateItem(item, Document{"views": first})
	assertStr(t, f.Format(item), first)
}
