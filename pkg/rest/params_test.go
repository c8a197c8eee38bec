package rest

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryParams_KeepsDeclarationOrder(t *testing.T) {
	var p QueryParams
	p.Push("zeta", "1").Push("alpha", 2).Push("mid", true)

	assert.Equal(t, "zeta=1&alpha=2&mid=true", p.Encode())
}

func TestQueryParams_SkipsAbsentValues(t *testing.T) {
	var missing *string
	present := "yes"

	var p QueryParams
	p.Push("a", "1").
		Push("empty", nil).
		PushOptional("opt", missing).
		PushOptional("set", &present).
		Push("nilptr", missing)

	encoded := p.Encode()
	assert.Equal(t, "a=1&set=yes", encoded)
	assert.NotContains(t, encoded, "empty=")
	assert.NotContains(t, encoded, "opt=")
	assert.Equal(t, 5, p.Len())
	assert.False(t, p.Has("opt"))
	assert.True(t, p.Has("set"))
}

func TestQueryParams_EscapesEachValue(t *testing.T) {
	var p QueryParams
	p.Push("q", "a b&c=d").Push("x/y", "é")

	assert.Equal(t, "q=a+b%26c%3Dd&x%2Fy=%C3%A9", p.Encode())
}

func TestQueryParams_AddToURLMergesExistingQuery(t *testing.T) {
	u, err := url.Parse("https://example.com/v1/items?existing=1")
	require.NoError(t, err)

	var p QueryParams
	p.Push("page", 2)
	p.AddToURL(u)

	assert.Equal(t, "existing=1&page=2", u.RawQuery)
}

func TestQueryParams_NilIsEmpty(t *testing.T) {
	var p *QueryParams
	u, err := url.Parse("https://example.com/health-check")
	require.NoError(t, err)

	p.AddToURL(u)

	assert.Empty(t, u.RawQuery)
	assert.Equal(t, 0, p.Len())
}
