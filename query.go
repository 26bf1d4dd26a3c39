/*
Package listkit – query helpers.

Sort-string and column-string parsing, plus page-window computation.
*/
package listkit

import (
	"strings"
)

// SortDirective orders query results by one path.
type SortDirective struct {
	Path string
	Desc bool
}

// ParseSort parses a whitespace- or comma-separated sort string such as
// "name -createdAt" into ordered directives. A leading '-' marks descending.
func ParseSort(s string) []SortDirective {
	var out []SortDirective
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	}) {
		d := SortDirective{Path: tok}
		if strings.HasPrefix(tok, "-") {
			d.Path = tok[1:]
			d.Desc = true
		}
		if d.Path != "" {
			out = append(out, d)
		}
	}
	return out
}

// Column is one projected output column.
type Column struct {
	Path  string
	Width string // optional, e.g. "30%" or "120"
}

// ParseColumns parses a comma-separated column string such as
// "name|30%,createdAt" into ordered column descriptors.
func ParseColumns(s string) []Column {
	var out []Column
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		c := Column{Path: tok}
		if i := strings.IndexByte(tok, '|'); i >= 0 {
			c.Path = tok[:i]
			c.Width = tok[i+1:]
		}
		out = append(out, c)
	}
	return out
}

// Page describes one window of a paginated result set.
// Previous/Next are page numbers (0 when absent); First/Last are the
// one-based indexes of the first and last item on the current page.
type Page struct {
	Total       int
	Results     []Document
	CurrentPage int
	TotalPages  int
	Pages       []int
	Previous    int
	Next        int
	First       int
	Last        int
}

// computePages fills the page window for a total count. An out-of-range
// requested page clamps to the nearest valid page rather than yielding an
// empty result. maxPages limits the length of Pages (0 = unlimited).
func computePages(total, perPage, page, maxPages int) *Page {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	p := &Page{
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		First:       (page-1)*perPage + 1,
		Last:        page * perPage,
	}
	if p.Last > total {
		p.Last = total
	}
	if total == 0 {
		p.First = 0
	}
	if page > 1 {
		p.Previous = page - 1
	}
	if page < totalPages {
		p.Next = page + 1
	}

	// window of page numbers centred on the current page
	start, end := 1, totalPages
	if maxPages > 0 && totalPages > maxPages {
		start = page - maxPages/2
		if start < 1 {
			start = 1
		}
		end = start + maxPages - 1
		if end > totalPages {
			end = totalPages
			start = end - maxPages + 1
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}
