package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSites_Lookup(t *testing.T) {
	sites := newSites()
	example := sites.site("example.com")
	fallback := sites.site("*")

	assert.Same(t, example, sites.Lookup("example.com"))
	assert.Same(t, example, sites.Lookup("example.com:8080"), "port should be ignored")
	assert.Same(t, example, sites.Lookup("EXAMPLE.com"), "host match is case-insensitive")
	assert.Same(t, fallback, sites.Lookup("other.com"))
}

func TestSites_LookupWithoutFallback(t *testing.T) {
	sites := newSites()
	sites.site("example.com")
	assert.Nil(t, sites.Lookup("other.com"))
}

func TestSites_All(t *testing.T) {
	sites := newSites()
	sites.site("*")
	sites.site("b.example.com")
	sites.site("a.example.com")

	all := sites.All()
	require.Len(t, all, 3)
	assert.Equal(t, "a.example.com", all[0].HostPattern)
	assert.Equal(t, "b.example.com", all[1].HostPattern)
	assert.Equal(t, "*", all[2].HostPattern, "fallback comes last")
}

func TestSiteConfig_Directives(t *testing.T) {
	site := NewSiteConfig("*")
	node := &Node{Name: "example_handler", File: "test.conf", Line: 1}

	// unset directive defaults to false
	assert.False(t, site.BoolDirective("example_handler"))
	_, ok := site.Directive("example_handler")
	assert.False(t, ok)

	require.NoError(t, site.SetDirective(node, BoolValue(true)))
	assert.True(t, site.BoolDirective("example_handler"))

	// a non-bool value is not a truthy bool directive
	other := &Node{Name: "static_root", File: "test.conf", Line: 2}
	require.NoError(t, site.SetDirective(other, StringValue("./public")))
	assert.False(t, site.BoolDirective("static_root"))

	assert.Equal(t, []string{"example_handler", "static_root"}, site.DirectiveNames())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "#true", BoolValue(true).String())
	assert.Equal(t, "#false", BoolValue(false).String())
	assert.Equal(t, "42", IntValue(42).String())
	assert.Equal(t, `"./public"`, StringValue("./public").String())
}
