package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/shops", nil)
	p := FromRequest(r)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/shops?page=3&per_page=50", nil)
	p := FromRequest(r)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset)
}

func TestFromRequest_InvalidValuesIgnored(t *testing.T) {
	r := httptest.NewRequest("GET", "/shops?page=-1&per_page=9999", nil)
	p := FromRequest(r)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestNewResult_ComputesPages(t *testing.T) {
	params := Params{Page: 2, PerPage: 10}
	res := NewResult([]string{"a", "b"}, 25, params)

	assert.Equal(t, 25, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_LastPage(t *testing.T) {
	params := Params{Page: 3, PerPage: 10}
	res := NewResult([]string{"a"}, 25, params)

	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrev)
}
