package middleware

import (
	"regexp"
	"strings"
)

// PublicPaths is a precompiled set of path patterns exempt from the auth
// guard. Patterns are matched against the literal request path: a pattern
// without wildcards must match exactly, `*` matches within one path
// segment, and `**` matches across segments (so `/login**` covers both
// `/login` and everything beneath it).
type PublicPaths struct {
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

// NewPublicPaths compiles the pattern set once at startup.
func NewPublicPaths(patterns []string) *PublicPaths {
	p := &PublicPaths{exact: make(map[string]struct{})}
	for _, pattern := range patterns {
		if !strings.ContainsRune(pattern, '*') {
			p.exact[pattern] = struct{}{}
			continue
		}
		p.patterns = append(p.patterns, compilePattern(pattern))
	}
	return p
}

// Match reports whether the literal path is public.
func (p *PublicPaths) Match(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, re := range p.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func compilePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString("[^/]*")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
