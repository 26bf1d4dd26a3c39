package listkit

import "testing"

func TestParseSort(t *testing.T) {
	got := ParseSort("name -createdAt, views")
	assertInt(t, len(got), 3)
	assertStr(t, got[0].Path, "name")
	assertTrue(t, !got[0].Desc, "name should be ascending")
	assertStr(t, got[1].Path, "createdAt")
	assertTrue(t, got[1].Desc, "-createdAt should be descending")
	assertStr(t, got[2].Path, "views")

	assertInt(t, len(ParseSort("")), 0)
}

func TestParseColumns(t *testing.T) {
	got := ParseColumns("name|30%, views, status|120")
	assertInt(t, len(got), 3)
	assertStr(t, got[0].Path, "name")
	assertStr(t, got[0].Width, "30%")
	assertStr(t, got[1].Path, "views")
	assertStr(t, got[1].Width, "")
	assertStr(t, got[2].Width, "120")
}

func TestComputePagesWindow(t *testing.T) {
	p := computePages(100, 10, 5, 5)
	assertInt(t, p.TotalPages, 10)
	assertInt(t, p.CurrentPage, 5)
	assertInt(t, len(p.Pages), 5)
	assertInt(t, p.Pages[0], 3)
	assertInt(t, p.Pages[4], 7)
	assertInt(t, p.Previous, 4)
	assertInt(t, p.Next, 6)
	assertInt(t, p.First, 41)
	assertInt(t, p.Last, 50)
}

func TestComputePagesEdges(t *testing.T) {
	// empty collection still yields one (empty) page
	p := computePages(0, 10, 1, 0)
	assertInt(t, p.TotalPages, 1)
	assertInt(t, p.First, 0)
	assertInt(t, p.Last, 0)
	assertInt(t, p.Previous, 0)
	assertInt(t, p.Next, 0)

	// window clamps at the upper end
	p = computePages(100, 10, 10, 5)
	assertInt(t, p.Pages[0], 6)
	assertInt(t, p.Pages[len(p.Pages)-1], 10)

	// page below range clamps to the first page
	p = computePages(30, 10, -4, 0)
	assertInt(t, p.CurrentPage, 1)
}
