package pagination

import "testing"

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name      string
		params    *PaginationParams
		wantLen   int
		wantFirst int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"defaults", nil, 10, 1, 3, true, false},
		{"second page of 10", &PaginationParams{Page: 2, PerPage: 10}, 10, 11, 3, true, true},
		{"last partial page", &PaginationParams{Page: 3, PerPage: 10}, 3, 21, 3, false, true},
		{"page size 20", &PaginationParams{Page: 1, PerPage: 20}, 20, 1, 2, true, false},
		{"page size 50", &PaginationParams{Page: 1, PerPage: 50}, 23, 1, 1, false, false},
		{"past the end", &PaginationParams{Page: 9, PerPage: 10}, 0, 0, 3, false, true},
		{"oversized page clamps", &PaginationParams{Page: 1, PerPage: 1000}, 23, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.params)
			if len(got.Items) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got.Items), tt.wantLen)
			}
			if tt.wantLen > 0 && got.Items[0] != tt.wantFirst {
				t.Errorf("first = %d, want %d", got.Items[0], tt.wantFirst)
			}
			if got.Pagination.TotalPages != tt.wantPages {
				t.Errorf("total pages = %d, want %d", got.Pagination.TotalPages, tt.wantPages)
			}
			if got.Pagination.HasNext != tt.wantNext || got.Pagination.HasPrev != tt.wantPrev {
				t.Errorf("next/prev = %v/%v, want %v/%v",
					got.Pagination.HasNext, got.Pagination.HasPrev, tt.wantNext, tt.wantPrev)
			}
			if got.Pagination.Total != 23 {
				t.Errorf("total = %d, want 23", got.Pagination.Total)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	got := Paginate([]string{}, DefaultPagination())
	if len(got.Items) != 0 || got.Pagination.TotalPages != 0 || got.Pagination.HasNext {
		t.Errorf("unexpected result for empty list: %+v", got.Pagination)
	}
}
