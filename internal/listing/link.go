package listing

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	anchorTagRe = regexp.MustCompile(`(?is)<a[^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
	moreInfoRe  = regexp.MustCompile(`(?i)more\s*information`)
)

// detailLinkNear finds the "More Information" link belonging to the date
// anchor at the given offset: every anchor tag in the surrounding window is
// checked, and the textually nearest one whose visible text matches wins.
// Anchor inner markup is frequently nested (icons, spans), so visible text
// goes through an HTML parse rather than a tag-strip regex.
func detailLinkNear(html string, anchor int, baseOrigin string) string {
	lo := max(0, anchor-linkWindow)
	hi := min(len(html), anchor+linkWindow)
	window := html[lo:hi]

	bestHref := ""
	bestDist := -1
	for _, m := range anchorTagRe.FindAllStringSubmatchIndex(window, -1) {
		href := window[m[2]:m[3]]
		inner := window[m[4]:m[5]]
		if !moreInfoRe.MatchString(visibleText(inner)) {
			continue
		}
		dist := lo + m[0] - anchor
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestHref = href
		}
	}
	if bestHref == "" {
		return ""
	}
	return resolveURL(baseOrigin, bestHref)
}

// visibleText renders an HTML fragment down to its user-visible text.
func visibleText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// resolveURL normalizes an href against the site's base origin. Absolute,
// scheme-relative, root-relative and bare-relative forms all come out as
// absolute URLs.
func resolveURL(baseOrigin, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(baseOrigin, "/") + href
	default:
		href = strings.TrimPrefix(href, "./")
		return strings.TrimRight(baseOrigin, "/") + "/" + strings.TrimPrefix(href, "/")
	}
}
