package docrag

// Pattern matches a URL against a compiled glob.
type Pattern interface {
	Match(url string) bool
}

// URLFilter gates which URLs may be visited.
//
// A URL is allowed when it matches at least one Accept pattern and no Deny
// pattern. An empty Accept list allows nothing.
type URLFilter struct {
	Accept []Pattern
	Deny   []Pattern
}

// Allowed reports whether the URL passes the filter. A nil filter allows
// nothing.
func (f *URLFilter) Allowed(url string) bool {
	if f == nil {
		return false
	}

	accepted := false
	for _, p := range f.Accept {
		if p.Match(url) {
			accepted = true
			break
		}
	}
	if !accepted {
		return false
	}

	for _, p := range f.Deny {
		if p.Match(url) {
			return false
		}
	}
	return true
}
