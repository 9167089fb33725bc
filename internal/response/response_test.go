package response

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		perPage    int
		totalItems int
		wantPages  int
	}{
		{"exact pages", 1, 25, 50, 2},
		{"partial last page", 2, 25, 51, 3},
		{"empty", 1, 25, 0, 0},
		{"single short page", 1, 25, 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.perPage, tt.totalItems)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.Page != tt.page || p.PerPage != tt.perPage || p.TotalItems != tt.totalItems {
				t.Errorf("pagination = %+v, want page=%d per_page=%d total=%d",
					p, tt.page, tt.perPage, tt.totalItems)
			}
		})
	}
}
