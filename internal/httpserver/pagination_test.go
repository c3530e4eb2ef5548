package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{
			name:       "defaults",
			query:      "",
			wantLimit:  DefaultLimit,
			wantOffset: 0,
		},
		{
			name:       "custom limit and offset",
			query:      "limit=50&offset=20",
			wantLimit:  50,
			wantOffset: 20,
		},
		{
			name:    "limit above max rejected",
			query:   "limit=101",
			wantErr: true,
		},
		{
			name:    "limit zero rejected",
			query:   "limit=0",
			wantErr: true,
		},
		{
			name:    "negative limit rejected",
			query:   "limit=-1",
			wantErr: true,
		},
		{
			name:    "non-numeric limit",
			query:   "limit=abc",
			wantErr: true,
		},
		{
			name:    "negative offset rejected",
			query:   "offset=-1",
			wantErr: true,
		},
		{
			name:       "limit at max boundary",
			query:      "limit=100",
			wantLimit:  100,
			wantOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			p, err := ParsePageParams(r)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePageParams() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	type item struct{ Name string }

	tests := []struct {
		name            string
		itemCount       int
		params          PageParams
		total           int
		wantPage        int
		wantSize        int
		wantHasNext     bool
		wantHasPrevious bool
	}{
		{
			name:            "first page of multiple",
			itemCount:       10,
			params:          PageParams{Limit: 10, Offset: 0},
			total:           25,
			wantPage:        1,
			wantSize:        10,
			wantHasNext:     true,
			wantHasPrevious: false,
		},
		{
			name:            "second page",
			itemCount:       10,
			params:          PageParams{Limit: 10, Offset: 10},
			total:           25,
			wantPage:        2,
			wantSize:        10,
			wantHasNext:     true,
			wantHasPrevious: true,
		},
		{
			name:            "last page exact fit",
			itemCount:       5,
			params:          PageParams{Limit: 10, Offset: 20},
			total:           25,
			wantPage:        3,
			wantSize:        5,
			wantHasNext:     false,
			wantHasPrevious: true,
		},
		{
			name:            "empty result set",
			itemCount:       0,
			params:          PageParams{Limit: 10, Offset: 0},
			total:           0,
			wantPage:        1,
			wantSize:        0,
			wantHasNext:     false,
			wantHasPrevious: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]item, tt.itemCount)
			page := NewPage(items, tt.params, tt.total)

			if len(page.Items) != tt.itemCount {
				t.Errorf("Items length = %d, want %d", len(page.Items), tt.itemCount)
			}
			if page.Total != tt.total {
				t.Errorf("Total = %d, want %d", page.Total, tt.total)
			}
			if page.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", page.Page, tt.wantPage)
			}
			if page.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", page.Size, tt.wantSize)
			}
			if page.HasNext != tt.wantHasNext {
				t.Errorf("HasNext = %v, want %v", page.HasNext, tt.wantHasNext)
			}
			if page.HasPrevious != tt.wantHasPrevious {
				t.Errorf("HasPrevious = %v, want %v", page.HasPrevious, tt.wantHasPrevious)
			}
		})
	}
}
