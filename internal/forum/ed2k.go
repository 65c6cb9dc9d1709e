package forum

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ed2kHrefPattern      = regexp.MustCompile(`(?i)href=["'](ed2k://\|file\|[^"']*?\|/)["']`)
	ed2kFilearrayPattern = regexp.MustCompile(`(?i)filearray\d+\[\d+\]\s*=\s*["'](ed2k://\|file\|[^"']*?\|/)["']`)
	ed2kLoosePattern     = regexp.MustCompile(`(?i)ed2k://\|file\|[^|<>"]+\|\d+\|[0-9A-Fa-f]+\|[^"<>]*?\|/`)
	ed2kSpacePattern     = regexp.MustCompile(`\s+`)
)

// Ed2kLink is one extracted release link with its decoded name and size.
type Ed2kLink struct {
	Link string `json:"link"`
	Name string `json:"name"`
	Size string `json:"size,omitempty"`
}

// Ed2kStats aggregates a set of parsed links.
type Ed2kStats struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"total_bytes"`
}

// ExtractEd2kLinks pulls ed2k file links out of a topic page. Posts embed
// them as plain hrefs or inside filearray javascript blocks; both are
// scanned, plus a loose pass for links pasted as bare text. Links are
// deduplicated by file hash.
func ExtractEd2kLinks(htmlText string) []string {
	raw := html.UnescapeString(htmlText)
	content := postContent(raw)
	flat := strings.NewReplacer("\r", "", "\n", "").Replace(html.UnescapeString(content))

	hrefMatches := captures(ed2kHrefPattern, flat)
	filearrayMatches := captures(ed2kFilearrayPattern, flat)
	looseMatches := ed2kLoosePattern.FindAllString(flat, -1)

	// Some posts keep the filearray block outside the selected content node.
	if strings.Contains(raw, "filearray") && len(filearrayMatches) < 5 {
		fallback := strings.NewReplacer("\r", "", "\n", "").Replace(raw)
		filearrayMatches = captures(ed2kFilearrayPattern, fallback)
	}

	var ordered []string
	if len(filearrayMatches) > 0 {
		ordered = append(ordered, filearrayMatches...)
		ordered = append(ordered, hrefMatches...)
		ordered = append(ordered, looseMatches...)
	} else {
		ordered = append(ordered, hrefMatches...)
		ordered = append(ordered, looseMatches...)
		if len(ordered) == 0 && strings.Contains(raw, "ed2k://|file|") {
			fallback := strings.NewReplacer("\r", "", "\n", "").Replace(raw)
			ordered = append(ordered, captures(ed2kHrefPattern, fallback)...)
			ordered = append(ordered, ed2kLoosePattern.FindAllString(fallback, -1)...)
		}
	}

	var cleaned []string
	seen := make(map[string]bool)
	for _, link := range ordered {
		link = ed2kSpacePattern.ReplaceAllString(link, "")
		if !strings.HasPrefix(link, "ed2k://|file|") {
			continue
		}
		if !strings.Contains(link, "|/") {
			continue
		}
		if strings.ContainsAny(link, "<>") {
			continue
		}
		key := link
		parts := strings.Split(link, "|")
		if len(parts) >= 5 && parts[1] == "file" && parts[4] != "" {
			key = strings.ToLower(parts[4])
		}
		if !seen[key] {
			seen[key] = true
			cleaned = append(cleaned, link)
		}
	}
	return cleaned
}

// postContent picks the post body node most likely to carry the links.
func postContent(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	nodes := doc.Find(".postbody .content")
	if nodes.Length() == 0 {
		return raw
	}
	content := ""
	nodes.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		nodeHTML, err := goquery.OuterHtml(sel)
		if err != nil {
			return true
		}
		if strings.Contains(nodeHTML, "ed2k://|file|") || strings.Contains(nodeHTML, "filearray") {
			content = nodeHTML
			return false
		}
		return true
	})
	if content == "" {
		content, err = goquery.OuterHtml(nodes.First())
		if err != nil {
			return raw
		}
	}
	return content
}

// ParseEd2kLink splits an ed2k://|file|NAME|SIZE|HASH|/ link into its parts.
func ParseEd2kLink(link string) Ed2kLink {
	parsed := Ed2kLink{Link: link, Name: link}
	parts := strings.Split(link, "|")
	if len(parts) >= 5 && parts[1] == "file" {
		if parts[2] != "" {
			if name, err := url.QueryUnescape(parts[2]); err == nil {
				parsed.Name = name
			} else {
				parsed.Name = parts[2]
			}
		}
		parsed.Size = parts[3]
	}
	return parsed
}

// ComputeEd2kStats sums link count and total declared bytes.
func ComputeEd2kStats(links []Ed2kLink) Ed2kStats {
	stats := Ed2kStats{Count: len(links)}
	for _, link := range links {
		size, err := strconv.ParseInt(link.Size, 10, 64)
		if err != nil {
			continue
		}
		stats.TotalBytes += size
	}
	return stats
}

func captures(pattern *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}
	return out
}
