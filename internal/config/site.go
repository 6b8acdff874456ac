package config

import (
	"net"
	"sort"
	"strings"
)

// fallbackPattern matches any host not claimed by another site block.
const fallbackPattern = "*"

// SiteConfig holds the resolved directive values for one virtual host.
// It is mutated only while a configuration load is in progress and is
// read-only once the load completes, so handlers may share it across
// concurrent requests without locking.
type SiteConfig struct {
	HostPattern string

	directives map[string]Value
}

func NewSiteConfig(pattern string) *SiteConfig {
	return &SiteConfig{
		HostPattern: pattern,
		directives:  make(map[string]Value),
	}
}

// SetDirective records the resolved value for a directive. At most one
// value may be resolved per directive per site.
func (s *SiteConfig) SetDirective(node *Node, v Value) error {
	if _, exists := s.directives[node.Name]; exists {
		return NewError(node, ErrDuplicateDirective, "already set for site %q", s.HostPattern)
	}
	s.directives[node.Name] = v
	return nil
}

// Directive returns the resolved value for a directive name.
func (s *SiteConfig) Directive(name string) (Value, bool) {
	v, ok := s.directives[name]
	return v, ok
}

// BoolDirective returns the resolved boolean for a directive, or false
// when the directive is unset.
func (s *SiteConfig) BoolDirective(name string) bool {
	v, ok := s.directives[name]
	return ok && v.Kind == KindBool && v.Bool
}

// StringDirective returns the resolved string for a directive.
func (s *SiteConfig) StringDirective(name string) (string, bool) {
	v, ok := s.directives[name]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// DirectiveNames returns the names of all resolved directives, sorted.
func (s *SiteConfig) DirectiveNames() []string {
	names := make([]string, 0, len(s.directives))
	for name := range s.directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sites is the resolved set of site configurations for one load. Like
// SiteConfig it is immutable once the load completes; reloads build a
// fresh Sites value rather than mutating an existing one.
type Sites struct {
	byHost   map[string]*SiteConfig
	fallback *SiteConfig
}

func newSites() *Sites {
	return &Sites{byHost: make(map[string]*SiteConfig)}
}

// site returns the SiteConfig for a host pattern, creating it if this is
// the first block seen for the pattern. Blocks for the same pattern in
// multiple files merge into one scope.
func (s *Sites) site(pattern string) *SiteConfig {
	if pattern == fallbackPattern {
		if s.fallback == nil {
			s.fallback = NewSiteConfig(pattern)
		}
		return s.fallback
	}
	cfg, ok := s.byHost[pattern]
	if !ok {
		cfg = NewSiteConfig(pattern)
		s.byHost[pattern] = cfg
	}
	return cfg
}

// Lookup resolves the site for a request's Host header. The port, if
// present, is ignored. Returns nil when no site matches and no fallback
// site is configured.
func (s *Sites) Lookup(host string) *SiteConfig {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	if cfg, ok := s.byHost[host]; ok {
		return cfg
	}
	return s.fallback
}

// All returns every configured site, fallback last.
func (s *Sites) All() []*SiteConfig {
	patterns := make([]string, 0, len(s.byHost))
	for pattern := range s.byHost {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	all := make([]*SiteConfig, 0, len(s.byHost)+1)
	for _, pattern := range patterns {
		all = append(all, s.byHost[pattern])
	}
	if s.fallback != nil {
		all = append(all, s.fallback)
	}
	return all
}
