package css

import (
	"regexp"
	"strings"
)

var (
	reComment       = regexp.MustCompile(`/\*[\s\S]+?\*/`)
	reLineBreak     = regexp.MustCompile(`[\n\r]`)
	rePunctSpace    = regexp.MustCompile(`\s*([:;,{}])\s*`)
	reSpaceRun      = regexp.MustCompile(`\s+`)
	reImportant     = regexp.MustCompile(`\s+(!important)`)
	reHexColor      = regexp.MustCompile(`#[a-fA-F0-9]+`)
	reMSFilter      = regexp.MustCompile(`Microsoft[^;}]*`)
	reShortHexColor = regexp.MustCompile(`#[a-fA-F0-9]{3}\b`)
	reUnit          = regexp.MustCompile(`\d+[a-zA-Z]{2}`)
	reZeroPx        = regexp.MustCompile(`([\s|:])0+px`)
)

// Minify removes comments and redundant whitespace from CSS and applies a
// few safe value shortenings: #aabbcc becomes #abc, repeated box values are
// collapsed and 0px becomes 0.
func Minify(style string) string {
	s := strings.TrimSpace(style)
	s = reComment.ReplaceAllString(s, "")
	s = reLineBreak.ReplaceAllString(s, "")
	s = rePunctSpace.ReplaceAllString(s, "$1")
	s = reSpaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, ";}", "}")
	s = reImportant.ReplaceAllString(s, "$1")
	s = reHexColor.ReplaceAllStringFunc(s, shortenHexColor)
	// legacy IE filters do not understand short colors
	s = reMSFilter.ReplaceAllStringFunc(s, func(filter string) string {
		return reShortHexColor.ReplaceAllStringFunc(filter, expandHexColor)
	})
	s = collapseUnits(s, 4, func(v []string) []string {
		if strings.EqualFold(v[0], v[1]) && strings.EqualFold(v[0], v[2]) && strings.EqualFold(v[0], v[3]) {
			return v[:1]
		}
		return nil
	})
	s = collapseUnits(s, 4, func(v []string) []string {
		if strings.EqualFold(v[0], v[2]) && strings.EqualFold(v[1], v[3]) {
			return v[:2]
		}
		return nil
	})
	return reZeroPx.ReplaceAllString(s, "${1}0")
}

func shortenHexColor(c string) string {
	if len(c) != 7 || c[1] != c[2] || c[3] != c[4] || c[5] != c[6] {
		return c
	}
	return string([]byte{'#', c[1], c[3], c[5]})
}

func expandHexColor(c string) string {
	return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
}

// collapseUnits finds runs of n space separated dimension values (like "1px
// 2em") and replaces every run for which shorten returns non nil with the
// values it returned. Runs are matched left to right, a rejected run is
// retried starting from its second value.
func collapseUnits(s string, n int, shorten func([]string) []string) string {
	locs := reUnit.FindAllStringIndex(s, -1)
	if len(locs) < n {
		return s
	}

	var (
		sb   strings.Builder
		last int
	)
	for i := 0; i+n <= len(locs); {
		if !isWordStart(s, locs[i][0]) || !adjacentUnits(s, locs[i:i+n]) {
			i++
			continue
		}
		values := make([]string, n)
		for k, l := range locs[i : i+n] {
			values[k] = s[l[0]:l[1]]
		}
		short := shorten(values)
		if short == nil {
			i++
			continue
		}
		sb.WriteString(s[last:locs[i][0]])
		sb.WriteString(strings.Join(short, " "))
		last = locs[i+n-1][1]
		i += n
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func adjacentUnits(s string, locs [][]int) bool {
	for k := 1; k < len(locs); k++ {
		if locs[k][0] != locs[k-1][1]+1 || s[locs[k-1][1]] != ' ' {
			return false
		}
	}
	return true
}

func isWordStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	return !(c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'))
}
