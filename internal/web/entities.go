package web

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxDecodePasses = 3

var (
	namedEntities = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	hexEntity     = regexp.MustCompile(`&#x([0-9a-fA-F]+);`)
	decimalEntity = regexp.MustCompile(`&#(\d+);`)
)

// DecodeEntities undoes the escaping stored article HTML may have picked up
// from the editor: a JSON-quoted string is unquoted, then entities are decoded
// up to three times so doubly escaped text (&amp;lt;) comes out as markup.
func DecodeEntities(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(s), &unquoted); err == nil {
			s = unquoted
		} else {
			s = s[1 : len(s)-1]
		}
	}

	for i := 0; i < maxDecodePasses; i++ {
		prev := s
		// &amp; first so &amp;lt; becomes &lt; for the next replacement
		s = strings.ReplaceAll(s, "&amp;", "&")
		s = namedEntities.Replace(s)
		s = hexEntity.ReplaceAllStringFunc(s, func(m string) string {
			return codePoint(m, hexEntity, 16)
		})
		s = decimalEntity.ReplaceAllStringFunc(s, func(m string) string {
			return codePoint(m, decimalEntity, 10)
		})
		if s == prev {
			break
		}
	}
	return s
}

// codePoint leaves entities naming invalid code points untouched.
func codePoint(match string, re *regexp.Regexp, base int) string {
	digits := re.FindStringSubmatch(match)[1]
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || n > utf8.MaxRune {
		return match
	}
	return string(rune(n))
}
