package richtext

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockTags end the current line when opened or closed.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "section": true, "hr": true,
}

// HTMLLine is one line of text extracted from HTML.
type HTMLLine struct {
	Text    string
	Bold    bool
	Heading int // 1..6 for h1..h6, 0 otherwise
}

// HTMLToLines extracts the visible text of an HTML fragment, one entry per
// block-level element. Script and style content is dropped.
func HTMLToLines(fragment string) []HTMLLine {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		out     []HTMLLine
		buf     strings.Builder
		bold    int
		heading int
		skip    int
		lineB   bool
	)
	flush := func() {
		t := strings.Join(strings.Fields(buf.String()), " ")
		if t != "" {
			out = append(out, HTMLLine{Text: t, Bold: lineB || heading > 0, Heading: heading})
		}
		buf.Reset()
		lineB = false
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				flush()
				return out
			}
			flush()
			return out
		case html.TextToken:
			if skip > 0 {
				continue
			}
			buf.Write(z.Text())
			if bold > 0 {
				lineB = true
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch tag {
			case "script", "style":
				if tt == html.StartTagToken {
					skip++
				}
			case "b", "strong":
				if tt == html.StartTagToken {
					bold++
				}
			}
			if blockTags[tag] {
				flush()
				if lvl := headingLevel(tag); lvl > 0 && tt == html.StartTagToken {
					heading = lvl
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch tag {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "b", "strong":
				if bold > 0 {
					bold--
				}
			}
			if blockTags[tag] {
				flush()
				if headingLevel(tag) > 0 {
					heading = 0
				}
			}
		}
	}
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
