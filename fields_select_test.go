package listkit

import "testing"

func TestSelectOptionShapes(t *testing.T) {
	want := []SelectOption{
		{Value: "draft", Label: "Draft"},
		{Value: "published", Label: "Published"},
	}
	shapes := []any{
		"draft, published",
		[]string{"draft", "published"},
		[]any{"draft", "published"},
		[]SelectOption{{Value: "draft", Label: "Draft"}, {Value: "published", Label: "Published"}},
	}
	for _, shape := range shapes {
		got := normalizeSelectOptions(shape)
		if len(got) != len(want) {
			t.Fatalf("shape %T: got %d options", shape, len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("shape %T: got %+v, want %+v", shape, got[i], want[i])
			}
		}
	}
}

func TestSelectValidateAndFormat(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("status")

	ok, _ := f.ValidateInput(Document{"status": "published"})
	assertTrue(t, ok, "declared value rejected")
	ok, _ = f.ValidateInput(Document{"status": "bogus"})
	assertTrue(t, !ok, "undeclared value accepted")

	item := Document{}
	f.UpdateItem(item, Document{"status": "published"})
	assertStr(t, f.Format(item), "Published")

	f.UpdateItem(item, Document{"status": "bogus"})
	if item["status"] != nil {
		t.Fatalf("undeclared value must clear, got %v", item["status"])
	}
}

func TestSelectLabelVirtualPath(t *testing.T) {
	_, _, posts := makeBlog(t)
	paths := posts.Field("status").Paths()
	assertInt(t, len(paths), 2)
	assertStr(t, paths[1].Path, "statusLabel")
	assertTrue(t, paths[1].Virtual, "label path must be virtual")

	label, ok := posts.Underscore("status", "label")
	assertTrue(t, ok, "missing label underscore")
	assertStr(t, label(Document{"status": "draft"}).(string), "Draft")
}

func TestSelectEmptyArrayFilter(t *testing.T) {
	_, _, posts := makeBlog(t)
	saveDoc(t, posts, nil, Document{"name": "a", "status": "draft"})
	saveDoc(t, posts, nil, Document{"name": "b", "status": "published"})
	saveDoc(t, posts, nil, Document{"name": "c"})
	model, err := posts.Model()
	assertNoErr(t, err)

	// empty array, not inverted: matches no documents
	p := NewPredicate()
	assertNoErr(t, posts.AddFiltersToQuery(p, map[string]Filter{
		"status": {Value: []any{}},
	}))
	n, err := model.Count(bg(), p)
	assertNoErr(t, err)
	assertInt(t, n, 0)

	// empty array, inverted: matches every document holding a declared value
	p = NewPredicate()
	assertNoErr(t, posts.AddFiltersToQuery(p, map[string]Filter{
		"status": {Value: []any{}, Inverted: true},
	}))
	n, err = model.Count(bg(), p)
	assertNoErr(t, err)
	assertInt(t, n, 2)
}

func TestSelectArrayFilterOrSemantics(t *testing.T) {
	_, _, posts := makeBlog(t)
	saveDoc(t, posts, nil, Document{"name": "a", "status": "draft"})
	saveDoc(t, posts, nil, Document{"name": "b", "status": "published"})
	saveDoc(t, posts, nil, Document{"name": "c", "status": "archived"})
	model, err := posts.Model()
	assertNoErr(t, err)

	p := NewPredicate()
	assertNoErr(t, posts.AddFiltersToQuery(p, map[string]Filter{
		"status": {Value: []any{"draft", "archived"}},
	}))
	n, err := model.Count(bg(), p)
	assertNoErr(t, err)
	assertInt(t, n, 2)

	p = NewPredicate()
	assertNoErr(t, posts.AddFiltersToQuery(p, map[string]Filter{
		"status": {Value: []any{"draft", "archived"}, Inverted: true},
	}))
	n, err = model.Count(bg(), p)
	assertNoErr(t, err)
	assertInt(t, n, 1)
}
