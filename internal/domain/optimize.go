package domain

import (
	"hash/fnv"
	"regexp"
	"strings"
)

var (
	manyNewlinesRe = regexp.MustCompile(`\n{3,}`)
	manySpacesRe   = regexp.MustCompile(` {2,}`)
	lineEndSpaceRe = regexp.MustCompile(` +\n`)
)

// MaxOptimizedHashtags is the number of hashtags the optimizer keeps.
const MaxOptimizedHashtags = 2

// OptimizeTweet rewrites text towards what the ranking model rewards: external
// links move to a reply placeholder, hashtags beyond the first two are dropped
// and a call to action is appended when the text has no question or pointer.
// The output is a pure function of the input.
func (e *Engine) OptimizeTweet(text string) string {
	t := e.tables
	out := linkRe.ReplaceAllStringFunc(text, func(link string) string {
		if hasExternalLink(t, link) {
			return t.LinkPlaceholder
		}
		return link
	})

	kept := 0
	out = hashtagRe.ReplaceAllStringFunc(out, func(tag string) string {
		kept++
		if kept > MaxOptimizedHashtags {
			return ""
		}
		return tag
	})

	if !strings.Contains(out, "?") && !strings.Contains(out, "👇") && len(t.OptimizerCTAs) > 0 {
		h := fnv.New32a()
		_, _ = h.Write([]byte(text))
		out += t.OptimizerCTAs[int(h.Sum32()%uint32(len(t.OptimizerCTAs)))]
	}

	out = manyNewlinesRe.ReplaceAllString(out, "\n\n")
	out = manySpacesRe.ReplaceAllString(out, " ")
	out = lineEndSpaceRe.ReplaceAllString(out, "\n")

	return strings.TrimSpace(out)
}
