// ABOUTME: Scanner that finds update directives embedded in generated text
// ABOUTME: Every keyword followed by a colon starts a directive that runs to the next one or the line end
package directive

import (
	"sort"
	"strings"
)

// Keyword names a directive type
type Keyword string

const (
	FoodUpdate    Keyword = "FOOD_UPDATE"
	WorkoutUpdate Keyword = "WORKOUT_UPDATE"
	WeightUpdate  Keyword = "WEIGHT_UPDATE"
	ProfileUpdate Keyword = "PROFILE_UPDATE"
)

// Keywords lists every recognized keyword
var Keywords = []Keyword{FoodUpdate, WorkoutUpdate, WeightUpdate, ProfileUpdate}

// Directive is one keyword occurrence and its payload. Start and End are
// byte offsets of the stripped span in the scanned text; End stops before
// the line terminator.
type Directive struct {
	Keyword Keyword
	Payload string
	Line    int
	Start   int
	End     int
}

// Tokenize scans text line by line and returns the directives in order
func Tokenize(text string) []Directive {
	var out []Directive
	offset := 0
	line := 1
	for offset <= len(text) {
		end := strings.IndexByte(text[offset:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += offset
		}
		content := end
		if content > offset && text[content-1] == '\r' {
			content--
		}

		for _, d := range scanLine(text[offset:content]) {
			d.Line = line
			d.Start += offset
			d.End += offset
			out = append(out, d)
		}

		if end == len(text) {
			break
		}
		offset = end + 1
		line++
	}
	return out
}

// scanLine finds every keyword in s that is followed by optional spaces
// and a colon. Each payload ends where the next directive starts. Offsets
// are relative to s.
func scanLine(s string) []Directive {
	type hit struct {
		kw    Keyword
		start int
		body  int
	}
	var hits []hit
	for _, kw := range Keywords {
		from := 0
		for {
			i := strings.Index(s[from:], string(kw))
			if i < 0 {
				break
			}
			i += from
			from = i + len(kw)
			if body, ok := colonEnd(s, from); ok {
				hits = append(hits, hit{kw: kw, start: i, body: body})
			}
		}
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].start < hits[b].start })

	out := make([]Directive, 0, len(hits))
	for n, h := range hits {
		end := len(s)
		if n+1 < len(hits) {
			end = hits[n+1].start
		}
		out = append(out, Directive{
			Keyword: h.kw,
			Payload: strings.TrimSpace(s[h.body:end]),
			Start:   h.start,
			End:     end,
		})
	}
	return out
}

// colonEnd returns the offset just past the colon that follows optional
// spaces at s[from:]
func colonEnd(s string, from int) (int, bool) {
	i := from
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= len(s) || s[i] != ':' {
		return 0, false
	}
	return i + 1, true
}

// Strip removes every directive span from text, keeping line terminators
func Strip(text string, directives []Directive) string {
	if len(directives) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, d := range directives {
		if d.Start < prev || d.End > len(text) || d.Start > d.End {
			continue
		}
		b.WriteString(text[prev:d.Start])
		prev = d.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
