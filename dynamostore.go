/*
Package listkit – DynamoDB datastore.

Single-table layout: pk = list key, sk = document id, remaining document
attributes flattened alongside. Predicates are pushed down as filter
expressions where DynamoDB can express them (with name/value placeholder
dedup) and re-applied in full client-side, so semantics like
case-insensitive contains and ends-with stay exact.
*/
package listkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cmskit/listkit-go/internal/uid"
)

// DynamoClient is the client surface DynamoStore depends on.
type DynamoClient interface {
	Query(ctx context.Context, params *ddb.QueryInput, optFns ...func(*ddb.Options)) (*ddb.QueryOutput, error)
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
}

// DynamoStore compiles list schemas onto one DynamoDB table.
type DynamoStore struct {
	client DynamoClient
	table  string
	log    Logger
}

// NewDynamoStore wraps a DynamoDB client and table name.
func NewDynamoStore(client DynamoClient, table string, log Logger) *DynamoStore {
	if log == nil {
		log = nopLogger{}
	}
	return &DynamoStore{client: client, table: table, log: log}
}

func (s *DynamoStore) CompileSchema(schema *CompiledSchema) (Model, error) {
	if s.client == nil {
		return nil, NewArgError("DynamoStore has no client instance")
	}
	return &dynamoModel{store: s, schema: schema}, nil
}

type dynamoModel struct {
	store  *DynamoStore
	schema *CompiledSchema
}

func (m *dynamoModel) Find(ctx context.Context, q *Query) ([]Document, error) {
	if q == nil {
		q = &Query{}
	}
	if q.Predicate.matchesNothing() {
		return nil, nil
	}
	docs, err := m.scan(ctx, q.Predicate)
	if err != nil {
		return nil, err
	}
	sortDocuments(docs, q.Sort, resolveDocPath)

	if q.Skip > 0 {
		if q.Skip >= len(docs) {
			docs = nil
		} else {
			docs = docs[q.Skip:]
		}
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	if len(q.Columns) > 0 {
		for i, doc := range docs {
			proj := Document{"id": doc["id"]}
			for _, c := range q.Columns {
				if v, ok := doc[c]; ok {
					proj[c] = v
				}
			}
			docs[i] = proj
		}
	}
	return docs, nil
}

func (m *dynamoModel) Count(ctx context.Context, p *Predicate) (int, error) {
	if p.matchesNothing() {
		return 0, nil
	}
	docs, err := m.scan(ctx, p)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// scan queries the list's partition, pushing down the expressible part
// of the predicate, and re-applies the full predicate on the results.
func (m *dynamoModel) scan(ctx context.Context, p *Predicate) ([]Document, error) {
	e := newDynamoExpr()
	keyCond := fmt.Sprintf("#_%d = %s", e.addName("pk"), e.addValueExp(m.schema.Key))
	filter := e.translate(p)

	var docs []Document
	var startKey map[string]types.AttributeValue
	for {
		input := &ddb.QueryInput{
			TableName:                &m.store.table,
			KeyConditionExpression:   &keyCond,
			ExpressionAttributeNames: e.names,
			ExclusiveStartKey:        startKey,
		}
		values, err := attributevalue.MarshalMap(e.values)
		if err != nil {
			return nil, err
		}
		input.ExpressionAttributeValues = values
		if filter != "" {
			input.FilterExpression = &filter
		}
		m.store.log.Trace("dynamo query", map[string]any{
			"table": m.store.table, "list": m.schema.Key, "filter": filter,
		})
		out, err := m.store.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var doc Document
			if err := attributevalue.UnmarshalMap(raw, &doc); err != nil {
				return nil, err
			}
			doc["id"] = doc["sk"]
			delete(doc, "pk")
			delete(doc, "sk")
			if matchPredicate(doc, p, resolveDocPath) {
				docs = append(docs, doc)
			}
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return docs, nil
}

func (m *dynamoModel) Save(ctx context.Context, doc Document) error {
	id := toString(doc["id"])
	if id == "" {
		id = uid.New().String()
		doc["id"] = id
	}
	item := cloneDoc(doc)
	delete(item, "id")
	item["pk"] = m.schema.Key
	item["sk"] = id
	raw, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	_, err = m.store.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: &m.store.table,
		Item:      raw,
	})
	return err
}

func (m *dynamoModel) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]any{
		"pk": m.schema.Key,
		"sk": id,
	})
	if err != nil {
		return err
	}
	_, err = m.store.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName: &m.store.table,
		Key:       key,
	})
	return err
}

// resolveDocPath reads a (possibly dotted) path out of nested maps.
func resolveDocPath(doc Document, path string) any {
	if v, ok := doc[path]; ok {
		return v
	}
	i := strings.IndexByte(path, '.')
	if i <= 0 {
		return nil
	}
	if sub, ok := doc[path[:i]].(Document); ok {
		return resolveDocPath(sub, path[i+1:])
	}
	if sub, ok := doc[path[:i]].(map[string]any); ok {
		return resolveDocPath(sub, path[i+1:])
	}
	return nil
}

// ─── expression building ──────────────────────────────────────────────────────

// dynamoExpr accumulates expression attribute names and values with
// placeholder dedup (#_n / :_n).
type dynamoExpr struct {
	names     map[string]string
	namesMap  map[string]int
	values    map[string]any
	valuesMap map[string]int
	nindex    int
	vindex    int
}

func newDynamoExpr() *dynamoExpr {
	return &dynamoExpr{
		names:     map[string]string{},
		namesMap:  map[string]int{},
		values:    map[string]any{},
		valuesMap: map[string]int{},
	}
}

func (e *dynamoExpr) addName(name string) int {
	if idx, ok := e.namesMap[name]; ok {
		return idx
	}
	idx := e.nindex
	e.nindex++
	e.names[fmt.Sprintf("#_%d", idx)] = name
	e.namesMap[name] = idx
	return idx
}

// nameExp renders a dotted path as nested name placeholders.
func (e *dynamoExpr) nameExp(path string) string {
	segs := strings.Split(path, ".")
	for i, s := range segs {
		segs[i] = fmt.Sprintf("#_%d", e.addName(s))
	}
	return strings.Join(segs, ".")
}

func (e *dynamoExpr) addValue(value any) int {
	// dedup non-object, non-number values
	if value != nil {
		switch value.(type) {
		case map[string]any, []any, float64, int, int64:
			// do not dedup
		default:
			k := fmt.Sprintf("%v", value)
			if idx, ok := e.valuesMap[k]; ok {
				return idx
			}
			idx := e.vindex
			e.vindex++
			e.values[fmt.Sprintf(":_%d", idx)] = value
			e.valuesMap[k] = idx
			return idx
		}
	}
	idx := e.vindex
	e.vindex++
	e.values[fmt.Sprintf(":_%d", idx)] = value
	return idx
}

func (e *dynamoExpr) addValueExp(value any) string {
	return fmt.Sprintf(":_%d", e.addValue(value))
}

// translate renders the pushdown filter expression for a predicate.
// Conditions DynamoDB cannot express exactly (folded comparison,
// ends-with) are omitted here and enforced client-side.
func (e *dynamoExpr) translate(p *Predicate) string {
	if p.IsEmpty() {
		return ""
	}
	var terms []string
	for path, c := range p.All {
		if t := e.term(path, c); t != "" {
			terms = append(terms, t)
		}
	}
	if len(p.Any) > 0 {
		var ors []string
		complete := true
		for path, c := range p.Any {
			t := e.term(path, c)
			if t == "" {
				complete = false
				break
			}
			ors = append(ors, t)
		}
		// a partial OR branch would wrongly narrow results
		if complete && len(ors) > 0 {
			terms = append(terms, "("+strings.Join(ors, " OR ")+")")
		}
	}
	return strings.Join(terms, " AND ")
}

func (e *dynamoExpr) term(path string, c Condition) string {
	if c.Fold {
		return ""
	}
	name := e.nameExp(path)
	var t string
	switch c.Op {
	case OpEq:
		t = fmt.Sprintf("%s = %s", name, e.addValueExp(c.Value))
	case OpIn:
		if len(c.Values) == 0 {
			return ""
		}
		exps := make([]string, len(c.Values))
		for i, v := range c.Values {
			exps[i] = e.addValueExp(v)
		}
		t = fmt.Sprintf("%s IN (%s)", name, strings.Join(exps, ", "))
	case OpLT:
		t = fmt.Sprintf("%s < %s", name, e.addValueExp(c.Value))
	case OpLTE:
		t = fmt.Sprintf("%s <= %s", name, e.addValueExp(c.Value))
	case OpGT:
		t = fmt.Sprintf("%s > %s", name, e.addValueExp(c.Value))
	case OpGTE:
		t = fmt.Sprintf("%s >= %s", name, e.addValueExp(c.Value))
	case OpBetween:
		t = fmt.Sprintf("%s BETWEEN %s AND %s", name, e.addValueExp(c.Low), e.addValueExp(c.High))
	case OpContains:
		t = fmt.Sprintf("contains(%s, %s)", name, e.addValueExp(c.Value))
	case OpBegins:
		t = fmt.Sprintf("begins_with(%s, %s)", name, e.addValueExp(c.Value))
	case OpEmpty:
		t = fmt.Sprintf("(attribute_not_exists(%s) OR %s = %s)", name, name, e.addValueExp(""))
	default:
		return ""
	}
	if c.Not {
		return "NOT (" + t + ")"
	}
	return t
}
