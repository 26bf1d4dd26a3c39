package listkit

import (
	"context"
	"strings"
	"testing"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is a minimal in-memory stand-in for the DynamoDB client.
// It honours the partition-key condition and ignores filter expressions;
// the store re-applies the full predicate client-side anyway.
type fakeDynamo struct {
	items map[string]map[string]map[string]types.AttributeValue // pk → sk → item
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]map[string]types.AttributeValue{}}
}

func attrStr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, params *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	pk := attrStr(params.Item["pk"])
	sk := attrStr(params.Item["sk"])
	if f.items[pk] == nil {
		f.items[pk] = map[string]map[string]types.AttributeValue{}
	}
	f.items[pk][sk] = params.Item
	return &ddb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *ddb.QueryInput, _ ...func(*ddb.Options)) (*ddb.QueryOutput, error) {
	// key condition has the shape "#_n = :_n"
	parts := strings.Fields(*params.KeyConditionExpression)
	pk := attrStr(params.ExpressionAttributeValues[parts[2]])
	out := &ddb.QueryOutput{}
	for _, item := range f.items[pk] {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, params *ddb.DeleteItemInput, _ ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	pk := attrStr(params.Key["pk"])
	sk := attrStr(params.Key["sk"])
	delete(f.items[pk], sk)
	return &ddb.DeleteItemOutput{}, nil
}

func dynamoFixture(t *testing.T) Model {
	t.Helper()
	store := NewDynamoStore(newFakeDynamo(), "listkit-test", nopLogger{})
	model, err := store.CompileSchema(&CompiledSchema{
		Key: "Widget",
		Paths: []SchemaPath{
			{Path: "id", Kind: "id"},
			{Path: "name", Kind: "string"},
			{Path: "size", Kind: "number"},
		},
	})
	assertNoErr(t, err)
	for _, doc := range []Document{
		{"id": "w1", "name": "anvil", "size": 10.0},
		{"id": "w2", "name": "Bolt", "size": 2.0},
		{"id": "w3", "name": "crate"},
	} {
		assertNoErr(t, model.Save(bg(), doc))
	}
	return model
}

func TestDynamoFindCountDelete(t *testing.T) {
	model := dynamoFixture(t)

	n, err := model.Count(bg(), NewPredicate())
	assertNoErr(t, err)
	assertInt(t, n, 3)

	docs, err := model.Find(bg(), &Query{
		Predicate: NewPredicate().And("size", Condition{Op: OpGT, Value: 1.0}),
		Sort:      []SortDirective{{Path: "size"}},
	})
	assertNoErr(t, err)
	assertInt(t, len(docs), 2)
	assertStr(t, toString(docs[0]["id"]), "w2")

	assertNoErr(t, model.Delete(bg(), "w1"))
	n, err = model.Count(bg(), NewPredicate())
	assertNoErr(t, err)
	assertInt(t, n, 2)
}

func TestDynamoFoldedContainsExact(t *testing.T) {
	model := dynamoFixture(t)
	// folded comparisons cannot be pushed down; client-side filtering
	// must still make them exact
	p := NewPredicate().And("name", Condition{Op: OpContains, Value: "BOL", Fold: true})
	n, err := model.Count(bg(), p)
	assertNoErr(t, err)
	assertInt(t, n, 1)
}

func TestDynamoNotMatchesAbsent(t *testing.T) {
	model := dynamoFixture(t)
	p := NewPredicate().And("size", Condition{Op: OpEq, Value: 10.0, Not: true})
	n, err := model.Count(bg(), p)
	assertNoErr(t, err)
	assertInt(t, n, 2)
}

func TestDynamoExprPlaceholderDedup(t *testing.T) {
	e := newDynamoExpr()
	p := NewPredicate().
		And("name", Condition{Op: OpEq, Value: "x"}).
		And("status", Condition{Op: OpEq, Value: "x"})
	filter := e.translate(p)
	assertTrue(t, strings.Contains(filter, " AND "), filter)
	// "x" appears twice in the predicate but binds one placeholder
	assertInt(t, len(e.values), 1)
	assertInt(t, len(e.names), 2)
}

func TestDynamoExprShapes(t *testing.T) {
	e := newDynamoExpr()
	assertStr(t, e.term("size", Condition{Op: OpBetween, Low: 1, High: 5}),
		"#_0 BETWEEN :_0 AND :_1")
	assertStr(t, e.term("name", Condition{Op: OpBegins, Value: "a"}),
		"begins_with(#_1, :_2)")
	// "a" was already bound by the begins_with term above
	assertStr(t, e.term("name", Condition{Op: OpEq, Value: "a", Not: true}),
		"NOT (#_1 = :_2)")
	// folded conditions are left to the client side
	assertStr(t, e.term("name", Condition{Op: OpContains, Value: "a", Fold: true}), "")
	// nested paths render per-segment placeholders
	got := e.term("author.name", Condition{Op: OpEq, Value: "b"})
	assertTrue(t, strings.Contains(got, "."), got)
}

func TestDynamoEndToEndList(t *testing.T) {
	store := NewDynamoStore(newFakeDynamo(), "listkit-test", nopLogger{})
	e := New(EngineParams{Store: store, Logger: nopLogger{}})
	l := e.List("Note")
	assertNoErr(t, l.Add(
		FieldDef{"title", FieldOptions{Type: "text", Required: true}},
		FieldDef{"views", FieldOptions{Type: "number"}},
	))
	assertNoErr(t, l.Register())

	saveDoc(t, l, nil, Document{"title": "alpha", "views": 5})
	saveDoc(t, l, nil, Document{"title": "beta", "views": 50})

	page, err := l.Paginate(bg(), PaginateOptions{
		Page:    1,
		PerPage: 10,
		Filters: map[string]Filter{"views": {Mode: "gt", Value: 10}},
	})
	assertNoErr(t, err)
	assertInt(t, page.Total, 1)
	assertStr(t, toString(page.Results[0]["title"]), "beta")
}
