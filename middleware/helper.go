package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// PathMatcher matches request paths against a skip list. Entries ending in
// "/**" match the prefix and all of its sub-paths; everything else matches
// exactly.
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPathMatcher compiles a skip list.
func NewPathMatcher(paths []string) *PathMatcher {
	pm := &PathMatcher{
		exact: make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			pm.prefixes = append(pm.prefixes, prefix)
		} else {
			pm.exact[p] = struct{}{}
		}
	}
	return pm
}

// Match reports whether urlPath is on the skip list.
func (pm *PathMatcher) Match(urlPath string) bool {
	if pm == nil {
		return false
	}

	if _, ok := pm.exact[urlPath]; ok {
		return true
	}

	for _, prefix := range pm.prefixes {
		if urlPath == prefix {
			return true
		}
		if strings.HasPrefix(urlPath, prefix) && len(urlPath) > len(prefix) && urlPath[len(prefix)] == '/' {
			return true
		}
	}
	return false
}

func shouldSkip(c *gin.Context, matcher *PathMatcher) bool {
	return matcher.Match(c.Request.URL.Path)
}
