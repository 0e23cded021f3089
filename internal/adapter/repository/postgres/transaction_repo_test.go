package postgres

import (
	"testing"

	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.ListFilter
		want   string
	}{
		{name: "zero filter keeps insertion order", filter: domain.ListFilter{}, want: "seq ASC"},
		{name: "date desc", filter: domain.ListFilter{SortField: domain.SortByDate, SortOrder: domain.SortDesc}, want: "executed_at DESC, seq DESC"},
		{name: "type default order", filter: domain.ListFilter{SortField: domain.SortByType}, want: "side ASC, seq ASC"},
		{name: "amount asc", filter: domain.ListFilter{SortField: domain.SortByAmount, SortOrder: domain.SortAsc}, want: "amount ASC, seq ASC"},
		{name: "price desc", filter: domain.ListFilter{SortField: domain.SortByPrice, SortOrder: domain.SortDesc}, want: "price DESC, seq DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.filter))
		})
	}
}
