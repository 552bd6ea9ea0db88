// Package route maps address-bar hash fragments to view state for the
// single-document front end. The fragment is the only deep-link and
// back/forward mechanism the site has, so the codec here is treated as
// a wire format: tolerant on decode, stable on encode.
package route

import (
	"net/url"
	"strings"
)

// PageName identifies one of the fixed set of top-level views.
type PageName string

const (
	PageHome           PageName = "home"
	PageLogin          PageName = "login"
	PageRegister       PageName = "register"
	PageTerms          PageName = "terms"
	PagePrivacy        PageName = "privacy"
	PageForgotPassword PageName = "forgot-password"
	PageChairman       PageName = "chairman"
	PageNotice         PageName = "notice"
	PageNews           PageName = "news"
	PageSearch         PageName = "search"
	PageAllNotices     PageName = "all-notices"
	PageAllNews        PageName = "all-news"
	PageAdminDashboard PageName = "admin-dashboard"
	PagePageViewer     PageName = "page-viewer"
)

var knownPages = map[PageName]struct{}{
	PageHome: {}, PageLogin: {}, PageRegister: {}, PageTerms: {},
	PagePrivacy: {}, PageForgotPassword: {}, PageChairman: {},
	PageNotice: {}, PageNews: {}, PageSearch: {}, PageAllNotices: {},
	PageAllNews: {}, PageAdminDashboard: {}, PagePageViewer: {},
}

// Known reports whether p is a member of the closed page set.
func (p PageName) Known() bool {
	_, ok := knownPages[p]
	return ok
}

// Params is the bag of optional string parameters a route can carry.
type Params struct {
	ID    string
	Title string
	Query string
	Slug  string
}

// State is an immutable snapshot of the active route. A new State
// replaces the old one on every navigation; it is never mutated in
// place.
type State struct {
	Page  PageName `json:"page"`
	ID    string   `json:"id,omitempty"`
	Title string   `json:"title,omitempty"`
	Query string   `json:"query,omitempty"`
	Slug  string   `json:"slug,omitempty"`
}

// View returns the page the view-selection layer should mount. Decode
// passes unrecognized page names through verbatim; the fallback to home
// happens here rather than rendering nothing.
func (s State) View() PageName {
	if s.Page.Known() {
		return s.Page
	}
	return PageHome
}

// Encode serializes a State to its fragment form:
// <page>[?id=..][&title=..][&q=..][&slug=..]. Empty parameters are
// omitted; with no parameters there is no '?' at all. Key order is
// fixed (id, title, q, slug) so encoded fragments are stable.
func Encode(s State) string {
	var b strings.Builder
	b.WriteString(string(s.Page))
	sep := byte('?')
	write := func(key, val string) {
		if val == "" {
			return
		}
		b.WriteByte(sep)
		sep = '&'
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(val))
	}
	write("id", s.ID)
	write("title", s.Title)
	write("q", s.Query)
	write("slug", s.Slug)
	return b.String()
}

// Decode parses a fragment into a State. The portion before the first
// '?' is the page name, passed through without validation — an
// unrecognized name is carried as-is and resolved by View(). The rest
// is parsed as an ordinary query string; absent parameters decode to
// empty strings and malformed pairs are dropped rather than rejected.
// An empty fragment is equivalent to "home".
func Decode(fragment string) State {
	f := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	name, rawQuery, _ := strings.Cut(f, "?")
	if name == "" {
		name = string(PageHome)
	}

	vals, _ := url.ParseQuery(rawQuery)
	return State{
		Page:  PageName(name),
		ID:    vals.Get("id"),
		Title: vals.Get("title"),
		Query: vals.Get("q"),
		Slug:  vals.Get("slug"),
	}
}
