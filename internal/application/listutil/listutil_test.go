package listutil

import (
	"reflect"
	"testing"
)

// TestPageCount verifies the ceiling division with a floor of one page.
func TestPageCount(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{80, 16, 5},
		{81, 16, 6},
		{0, 16, 1},
		{1, 16, 1},
		{16, 16, 1},
		{17, 0, 2}, // falls back to DefaultPerPage
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.perPage); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}

// TestPaginate_FirstPage verifies page 0 of 80 items holds items 1-16.
func TestPaginate_FirstPage(t *testing.T) {
	items := make([]int, 80)
	for i := range items {
		items[i] = i + 1
	}
	got := Paginate(items, 0, 16)
	if len(got) != 16 || got[0] != 1 || got[15] != 16 {
		t.Errorf("page 0 = %v", got)
	}
	last := Paginate(items, 4, 16)
	if len(last) != 16 || last[15] != 80 {
		t.Errorf("page 4 = %v", last)
	}
	if out := Paginate(items, 5, 16); len(out) != 0 {
		t.Errorf("page 5 should be empty, got %v", out)
	}
	if out := Paginate(items, -1, 16); len(out) != 0 {
		t.Errorf("page -1 should be empty, got %v", out)
	}
}

// TestPaginate_Reassembles verifies concatenating pages reproduces the input.
func TestPaginate_Reassembles(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 33, 80} {
		items := make([]int, n)
		for i := range items {
			items[i] = i * 3
		}
		var joined []int
		for p := 0; p < PageCount(n, 16); p++ {
			joined = append(joined, Paginate(items, p, 16)...)
		}
		if len(joined) != len(items) || (n > 0 && !reflect.DeepEqual(joined, items)) {
			t.Errorf("n=%d: reassembled %v", n, joined)
		}
	}
}

// TestNewPageInfo_Clamps verifies the page index stays in range.
func TestNewPageInfo_Clamps(t *testing.T) {
	p := NewPageInfo(9, 16, 20)
	if p.Page != 1 || p.TotalPages != 2 {
		t.Errorf("got %+v", p)
	}
	p = NewPageInfo(-3, 16, 20)
	if p.Page != 0 {
		t.Errorf("got page %d, want 0", p.Page)
	}
	if p.Label() != "Page 1 / 2" {
		t.Errorf("label = %q", p.Label())
	}
	if p.HasPrev() || !p.HasNext() {
		t.Errorf("prev/next wrong for %+v", p)
	}
}

// TestPageNumbers verifies at most 5 buttons centred on the current page.
func TestPageNumbers(t *testing.T) {
	p := NewPageInfo(5, 10, 100)
	if got := p.PageNumbers(); !reflect.DeepEqual(got, []int{3, 4, 5, 6, 7}) {
		t.Errorf("got %v", got)
	}
	p = NewPageInfo(0, 16, 20)
	if got := p.PageNumbers(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("got %v", got)
	}
}

// TestParsePerPage verifies page size validation.
func TestParsePerPage(t *testing.T) {
	if got := ParsePerPage("24", 16); got != 24 {
		t.Errorf("ParsePerPage(24) = %d", got)
	}
	if got := ParsePerPage("25", 16); got != 16 {
		t.Errorf("ParsePerPage(25) = %d, want fallback", got)
	}
}
