package extract

import (
	"regexp"
	"sync"
)

// The tag pattern depends on the configured keyword, which is fixed for the
// life of the process, so compiled patterns are cached instead of rebuilt on
// every scan.
var (
	tagMu       sync.Mutex
	tagPatterns = map[string]*regexp.Regexp{}
)

func tagPattern(keyword string) *regexp.Regexp {
	tagMu.Lock()
	defer tagMu.Unlock()

	re, ok := tagPatterns[keyword]
	if !ok {
		re = regexp.MustCompile(`(?i)#` + regexp.QuoteMeta(keyword) + `\s+([\p{L}\p{N}_-]+)`)
		tagPatterns[keyword] = re
	}
	return re
}

// Tags scans recognized text for "#<keyword> <word>" tokens and returns the
// captured words in order of appearance, repeats included. No validation
// against the site table happens here; that is the resolver's job.
func Tags(text, keyword string) []string {
	var words []string
	for _, m := range tagPattern(keyword).FindAllStringSubmatch(text, -1) {
		words = append(words, m[1])
	}
	return words
}
