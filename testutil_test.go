package listkit

import (
	"context"
	"errors"
	"testing"
)

func bg() context.Context { return context.Background() }

func assertStr(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func assertInt(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func assertTrue(t *testing.T, ok bool, msg string) {
	t.Helper()
	if !ok {
		t.Fatal(msg)
	}
}

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErrCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var rte *ListKitError
	if errors.As(err, &rte) {
		if rte.Code != code {
			t.Fatalf("got code %s, want %s", rte.Code, code)
		}
		return
	}
	var arg *ListKitArgError
	if errors.As(err, &arg) {
		if arg.Code != code {
			t.Fatalf("got code %s, want %s", arg.Code, code)
		}
		return
	}
	t.Fatalf("error %v carries no code", err)
}

// makeBlog builds an engine with a registered User and Post list.
func makeBlog(t *testing.T) (*Engine, *List, *List) {
	t.Helper()
	e := New(EngineParams{Logger: nopLogger{}})

	users := e.List("User")
	assertNoErr(t, users.Add(
		FieldDef{"name", FieldOptions{Type: "text", Required: true}},
	))
	assertNoErr(t, users.Register())

	posts := e.List("Post", ListOptions{
		Track:        true,
		SearchFields: []string{"name", "summary"},
	})
	assertNoErr(t, posts.Add(
		"Content",
		FieldDef{"name", FieldOptions{Type: "text", Required: true}},
		FieldDef{"slug", FieldOptions{Type: "text"}},
		FieldDef{"summary", FieldOptions{Type: "textarea"}},
		FieldDef{"status", FieldOptions{Type: "select", Options: "draft, published, archived"}},
		FieldDef{"views", FieldOptions{Type: "number"}},
		FieldDef{"featured", FieldOptions{Type: "boolean"}},
		FieldDef{"publishedAt", FieldOptions{Type: "date"}},
		FieldDef{"tags", FieldOptions{Type: "textarray"}},
		FieldDef{"author", FieldOptions{Type: "relationship", Ref: "User"}},
	))
	assertNoErr(t, posts.Register())
	return e, users, posts
}

// saveDoc creates or updates a document and fails the test on any
// validation or backend error.
func saveDoc(t *testing.T, l *List, item, data Document) Document {
	t.Helper()
	if item == nil {
		item = Document{}
	}
	vr, err := l.UpdateItem(bg(), item, data)
	assertNoErr(t, err)
	if !vr.Valid {
		t.Fatalf("validation failed: %+v", vr.Results)
	}
	return item
}
