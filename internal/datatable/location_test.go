package datatable

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLLocationRewritesQuery(t *testing.T) {
	u, err := url.Parse("/consultants?page=2&role=admin")
	require.NoError(t, err)
	loc := NewURLLocation(u)

	assert.Equal(t, "2", loc.Get(QueryParamPage))

	writeState(loc, 0, "kim")
	assert.Equal(t, "page=1&role=admin&search=kim", loc.Encode())
	assert.Equal(t, "/consultants?page=1&role=admin&search=kim", loc.URL())

	writeState(loc, 4, "")
	assert.Equal(t, "/consultants?page=5&role=admin", loc.URL())
}

func TestMemoryLocationMalformedQuery(t *testing.T) {
	loc := NewMemoryLocation("%zz")
	assert.Equal(t, "", loc.Encode())
	assert.Equal(t, 0, readPage(loc))
}

func TestPageURLKeepsOtherParams(t *testing.T) {
	q := url.Values{"search": {"ali"}, "page": {"1"}}
	assert.Equal(t, "/customers?page=4&search=ali", PageURL("/customers", q, 3))
	assert.Equal(t, []string{"1"}, q["page"], "input is not modified")
}
