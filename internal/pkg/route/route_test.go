package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolboard/core/internal/pkg/route"
)

func TestDecodeNoticeFragment(t *testing.T) {
	s := route.Decode("notice?id=42")
	assert.Equal(t, route.PageNotice, s.Page)
	assert.Equal(t, "42", s.ID)
	assert.Empty(t, s.Title)
	assert.Empty(t, s.Query)
	assert.Empty(t, s.Slug)

	assert.Equal(t, "notice?id=42", route.Encode(s))
}

func TestDecodeEmptyFragmentIsHome(t *testing.T) {
	assert.Equal(t, route.Decode("home"), route.Decode(""))
	assert.Equal(t, route.PageHome, route.Decode("").Page)
	assert.Equal(t, route.Decode(""), route.Decode("#"))
}

func TestEncodeWithoutParamsHasNoQuestionMark(t *testing.T) {
	for _, page := range []route.PageName{
		route.PageHome, route.PageAllNotices, route.PageAdminDashboard,
	} {
		assert.Equal(t, string(page), route.Encode(route.State{Page: page}))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []route.State{
		{Page: route.PageHome},
		{Page: route.PageNotice, ID: "42"},
		{Page: route.PageNews, ID: "7", Title: "Sports Day"},
		{Page: route.PageSearch, Query: "admission form"},
		{Page: route.PagePageViewer, Slug: "about-us"},
		{Page: route.PageSearch, Query: "a&b=c?d"},
		{Page: route.PageNotice, ID: "42", Title: "100% attendance", Slug: "x/y"},
	}
	for _, want := range cases {
		got := route.Decode(route.Encode(want))
		assert.Equal(t, want, got, "round trip of %+v", want)
	}
}

func TestDecodeLeadingHashStripped(t *testing.T) {
	assert.Equal(t, route.Decode("notice?id=1"), route.Decode("#notice?id=1"))
}

func TestDecodeUnknownPagePassesThrough(t *testing.T) {
	s := route.Decode("no-such-view?id=9")
	assert.Equal(t, route.PageName("no-such-view"), s.Page)
	assert.False(t, s.Page.Known())
	// View selection falls back instead of rendering nothing.
	assert.Equal(t, route.PageHome, s.View())
}

func TestDecodeMalformedQueryKeepsParsablePairs(t *testing.T) {
	s := route.Decode("search?q=exam&%zz=1")
	assert.Equal(t, route.PageSearch, s.Page)
	assert.Equal(t, "exam", s.Query)
}

func TestNavigatorNavigateWritesHashOnlyWhenAsked(t *testing.T) {
	var written []string
	var scrollResets int
	n := route.NewNavigator(route.Hooks{
		ResetScroll: func() { scrollResets++ },
		WriteHash:   func(f string) { written = append(written, f) },
	})

	n.Navigate(route.PageNotice, route.Params{ID: "42"}, true)
	require.Equal(t, []string{"notice?id=42"}, written)
	assert.Equal(t, 1, scrollResets)

	n.Navigate(route.PageAllNews, route.Params{}, false)
	assert.Equal(t, []string{"notice?id=42"}, written)
	assert.Equal(t, route.PageAllNews, n.Current().Page)
}

func TestNavigatorHashEchoIsIdempotent(t *testing.T) {
	var changes []route.State
	n := route.NewNavigator(route.Hooks{
		OnChange: func(s route.State) { changes = append(changes, s) },
	})

	n.Navigate(route.PageNotice, route.Params{ID: "42"}, true)
	require.Len(t, changes, 1)

	// The address bar echoes the write back as a hash-change event.
	n.HandleHashChange("#notice?id=42")
	assert.Len(t, changes, 1, "echo of an equivalent state must not re-fire")
	assert.Equal(t, route.PageNotice, n.Current().Page)

	// A genuine back/forward change does fire.
	n.HandleHashChange("#all-notices")
	require.Len(t, changes, 2)
	assert.Equal(t, route.PageAllNotices, changes[1].Page)
}

func TestNavigatorEmptyFragment(t *testing.T) {
	n := route.NewNavigator(route.Hooks{})
	n.Navigate(route.PageSearch, route.Params{Query: "fees"}, false)
	n.HandleHashChange("")
	assert.Equal(t, route.State{Page: route.PageHome}, n.Current())
}
