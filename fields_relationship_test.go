package listkit

import "testing"

func TestRelationshipUnresolvedReference(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	l := e.List("Comment")
	assertNoErr(t, l.Add(FieldDef{"post", FieldOptions{Type: "relationship", Ref: "Nowhere"}}))
	assertErrCode(t, l.Register(), ErrUnresolvedReference)
}

func TestRelationshipExpandedData(t *testing.T) {
	_, users, posts := makeBlog(t)
	author := saveDoc(t, users, nil, Document{"name": "Ada"})
	post := saveDoc(t, posts, nil, Document{"name": "Counting", "author": author["id"]})

	rel := posts.Field("author").(*RelationshipField)
	vals, err := rel.ExpandedData(bg(), post)
	assertNoErr(t, err)
	assertInt(t, len(vals), 1)
	assertStr(t, vals[0].ID, toString(author["id"]))
	assertStr(t, vals[0].Name, "Ada")
}

func TestRelationshipManyUpdate(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	users := e.List("User")
	assertNoErr(t, users.Add(FieldDef{"name", FieldOptions{Type: "text"}}))
	assertNoErr(t, users.Register())
	teams := e.List("Team")
	assertNoErr(t, teams.Add(
		FieldDef{"name", FieldOptions{Type: "text"}},
		FieldDef{"members", FieldOptions{Type: "relationship", Ref: "User", Many: true}},
	))
	assertNoErr(t, teams.Register())

	f := teams.Field("members")
	item := Document{}
	f.UpdateItem(item, Document{"members": []any{"u1", "u2"}})
	got, ok := item["members"].([]string)
	assertTrue(t, ok, "many relationship must store []string")
	assertInt(t, len(got), 2)

	ok, _ = f.ValidateInput(Document{"members": []any{"u1", ""}})
	assertTrue(t, !ok, "empty reference accepted")
}

func TestRelationshipSingleRejectsArray(t *testing.T) {
	_, _, posts := makeBlog(t)
	ok, _ := posts.Field("author").ValidateInput(Document{"author": []any{"a", "b"}})
	assertTrue(t, !ok, "single relationship accepted an array")
}

func TestRelationshipDotPathFilter(t *testing.T) {
	_, users, posts := makeBlog(t)
	ada := saveDoc(t, users, nil, Document{"name": "Ada"})
	bob := saveDoc(t, users, nil, Document{"name": "Bob"})
	saveDoc(t, posts, nil, Document{"name": "by ada", "author": ada["id"]})
	saveDoc(t, posts, nil, Document{"name": "by bob", "author": bob["id"]})

	p := NewPredicate()
	assertNoErr(t, posts.AddFiltersToQuery(p, map[string]Filter{
		"author.name": {Mode: "exactly", Value: "Ada"},
	}))
	model, err := posts.Model()
	assertNoErr(t, err)
	docs, err := model.Find(bg(), &Query{Predicate: p})
	assertNoErr(t, err)
	assertInt(t, len(docs), 1)
	assertStr(t, toString(docs[0]["name"]), "by ada")
}
