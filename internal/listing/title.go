package listing

import (
	"regexp"
	"strings"
)

// fragmentRe captures direct text sitting before a closing inline/heading
// tag. Matching text nodes instead of elements keeps nested card markup from
// swallowing whole sections into one candidate.
var fragmentRe = regexp.MustCompile(`>([^<]{3,160}?)</(?:strong|h[1-6]|span|p|div|a)>`)

var (
	ctaRe     = regexp.MustCompile(`(?i)more\s*information|learn\s*more|buy\s*tickets|details`)
	weekdayRe = regexp.MustCompile(`(?i)^(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	monthRe   = regexp.MustCompile(`(?i)^(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
)

// titleNear resolves an event title for the date anchor at the given offset.
//
// The nearest qualifying fragment before the date wins (the site puts the
// headline above the date line), so candidates from the look-behind window
// are scanned in order and the last one kept. If nothing qualifies, the
// first qualifying fragment after the date is the fallback. Call-to-action
// phrases and bare weekday/month lines never qualify. Default: "Event".
func titleNear(html string, anchor int) string {
	behind := html[max(0, anchor-titleBackWindow):anchor]
	var title string
	for _, m := range fragmentRe.FindAllStringSubmatch(behind, -1) {
		if t := qualifyFragment(m[1]); t != "" {
			title = t
		}
	}
	if title != "" {
		return title
	}

	ahead := html[anchor:min(len(html), anchor+titleFwdWindow)]
	for _, m := range fragmentRe.FindAllStringSubmatch(ahead, -1) {
		if t := qualifyFragment(m[1]); t != "" {
			return t
		}
	}
	return "Event"
}

func qualifyFragment(raw string) string {
	t := strings.Join(strings.Fields(raw), " ")
	if t == "" {
		return ""
	}
	if ctaRe.MatchString(t) || weekdayRe.MatchString(t) || monthRe.MatchString(t) {
		return ""
	}
	return t
}
