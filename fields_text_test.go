package listkit

import (
	"strings"
	"testing"
)

func TestCropPreservesWords(t *testing.T) {
	got := CropString("the quick brown fox", 12, "...", true)
	assertStr(t, got, "the quick...")
	if strings.Contains(got, "bro") {
		t.Fatalf("crop left a partial word: %q", got)
	}
}

func TestCropLengthBound(t *testing.T) {
	s := "alpha beta gamma delta epsilon"
	for n := 0; n <= len(s)+2; n++ {
		got := CropString(s, n, "...", true)
		if len([]rune(got)) > n+3 {
			t.Fatalf("crop(%d) too long: %q", n, got)
		}
	}
}

func TestCropNoWordBoundary(t *testing.T) {
	// no whitespace before the cut: hard truncate instead of emptying
	assertStr(t, CropString("abcdefghij", 4, "…", true), "abcd…")
}

func TestCropShortStringUntouched(t *testing.T) {
	assertStr(t, CropString("short", 10, "...", true), "short")
}

func TestCropMultibyteSafe(t *testing.T) {
	got := CropString("héllo wörld ünïcode", 8, "…", false)
	for _, r := range got {
		if r == '�' {
			t.Fatalf("crop split a multi-byte character: %q", got)
		}
	}
	assertStr(t, got, "héllo wö…")
}

func TestCropKeepsCombiningSequencesWhole(t *testing.T) {
	s := "étude" // e + combining acute accent
	// a cut between base and mark drops the whole sequence
	assertStr(t, CropString(s, 1, "…", false), "…")
	assertStr(t, CropString(s, 2, "…", false), "é…")

	// stacked marks back up together
	s = "á̈bc" // a + two combining marks
	assertStr(t, CropString(s, 2, "…", false), "…")
	assertStr(t, CropString(s, 3, "…", false), "á̈…")
}

func TestTextValidateLength(t *testing.T) {
	e := New(EngineParams{Logger: nopLogger{}})
	list := e.List("Page")
	assertNoErr(t, list.Add(FieldDef{"title", FieldOptions{Type: "text", Min: Float(3), Max: Float(8)}}))
	field := list.Field("title")

	ok, _ := field.ValidateInput(Document{"title": "ab"})
	assertTrue(t, !ok, "too-short input accepted")
	ok, _ = field.ValidateInput(Document{"title": "abcdefghi"})
	assertTrue(t, !ok, "too-long input accepted")
	ok, _ = field.ValidateInput(Document{"title": "abcd"})
	assertTrue(t, ok, "valid input rejected")
	ok, _ = field.ValidateInput(Document{})
	assertTrue(t, ok, "absent input must be valid")
}

func TestTextFilterConditions(t *testing.T) {
	_, _, posts := makeBlog(t)
	f := posts.Field("name").(Filterable)

	c := f.FilterCondition(Filter{Value: "go"})
	if c.Op != OpContains || !c.Fold || c.Not {
		t.Fatalf("default mode: %+v", c)
	}
	c = f.FilterCondition(Filter{Mode: "exactly", Value: "go", Inverted: true})
	if c.Op != OpEq || !c.Not {
		t.Fatalf("exactly inverted: %+v", c)
	}
	c = f.FilterCondition(Filter{Mode: "beginsWith", Value: "go"})
	if c.Op != OpBegins {
		t.Fatalf("beginsWith: %+v", c)
	}

	// empty value matches empty/absent, never literal ""
	c = f.FilterCondition(Filter{Value: ""})
	if c.Op != OpEmpty {
		t.Fatalf("empty value: %+v", c)
	}
	// unknown mode falls back to the default
	c = f.FilterCondition(Filter{Mode: "bogus", Value: "go"})
	if c.Op != OpContains {
		t.Fatalf("unknown mode: %+v", c)
	}
}

func TestTextUnderscoreCrop(t *testing.T) {
	_, _, posts := makeBlog(t)
	crop, ok := posts.Underscore("summary", "crop")
	assertTrue(t, ok, "missing crop underscore")
	got := crop(Document{"summary": "one two three four"}, 8, "...", true)
	assertStr(t, got.(string), "one two...")
}
