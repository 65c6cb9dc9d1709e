package forum

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/davide/collectarr/internal/domain"
)

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// qualityPatterns are checked in order: resolution and format tags
// before generic rip/source tags, first match wins.
var qualityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b2160P\b`),
	regexp.MustCompile(`\b1080P\b`),
	regexp.MustCompile(`\b720P\b`),
	regexp.MustCompile(`\b480P\b`),
	regexp.MustCompile(`\bBDRIP\b`),
	regexp.MustCompile(`\bBLU[-\s]?RAY\b`),
	regexp.MustCompile(`\bWEBRIP\b`),
	regexp.MustCompile(`\bWEB\b`),
	regexp.MustCompile(`\bHD\b`),
	regexp.MustCompile(`\bSD\b`),
	regexp.MustCompile(`\bMUX\b`),
	regexp.MustCompile(`\bRIP\b`),
	regexp.MustCompile(`\bFOUND\b`),
	regexp.MustCompile(`\bDVD\b`),
	regexp.MustCompile(`\bHDTV\b`),
	regexp.MustCompile(`\bDVB\b`),
}

// ParseListPage extracts catalog items from one fetched list page.
// Anchors must follow the board's internal post link convention
// (class postlink-local, viewtopic href with a topic query parameter).
// The first occurrence of a topic id on the page wins.
func ParseListPage(htmlText string, src domain.ListSource, baseURL string) []domain.CatalogItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil
	}

	var items []domain.CatalogItem
	seenTopics := make(map[string]bool)

	doc.Find("a.postlink-local").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if !strings.Contains(href, "viewtopic.php") || !strings.Contains(href, "t=") {
			return
		}
		title := strings.TrimSpace(anchor.Text())
		if utf8.RuneCountInString(title) < 3 {
			return
		}
		if strings.HasPrefix(strings.ToLower(title), "lista") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		detailURL := base.ResolveReference(ref).String()
		topicID := extractTopicID(detailURL)
		if topicID != "" {
			if seenTopics[topicID] {
				return
			}
			seenTopics[topicID] = true
		}

		info := ""
		if span := anchor.NextAllFiltered("span").First(); span.Length() > 0 {
			info = collapseSpace(span.Text())
		}

		quality := src.Quality
		if quality == "" {
			quality = ParseQuality(info)
		}
		language := src.Language
		if language == "" {
			language = ParseLanguage(info)
		}

		items = append(items, domain.CatalogItem{
			Title:      title,
			DetailURL:  detailURL,
			TopicID:    topicID,
			Info:       info,
			Quality:    quality,
			Language:   language,
			MediaType:  src.MediaType,
			Category:   src.Category,
			Year:       ParseYear(title),
			SourceName: src.Name,
		})
	})

	return items
}

// extractTopicID pulls the topic identifier from the detail URL query string.
func extractTopicID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("t")
}

// ParseYear scans the title for a release year token in range 1900-2099.
func ParseYear(title string) int {
	if title == "" {
		return 0
	}
	match := yearPattern.FindString(title)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

// ParseLanguage infers the audio language tag from annotation text.
func ParseLanguage(text string) string {
	if text == "" {
		return ""
	}
	upper := strings.ToUpper(text)
	ita := strings.Contains(upper, "ITA")
	eng := strings.Contains(upper, "ENG")
	jpn := strings.Contains(upper, "JPN")
	switch {
	case ita && eng && jpn:
		return "ITA-ENG-JPN"
	case ita && jpn:
		return "ITA-JPN"
	case ita && eng:
		return "ITA-ENG"
	case strings.Contains(upper, "ITALIANO") || ita:
		return "ITA"
	case strings.Contains(upper, "INGLESE") || eng:
		return "ENG"
	case jpn || strings.Contains(upper, "JAP"):
		return "JPN"
	}
	return ""
}

// ParseQuality infers the quality tag from annotation text.
func ParseQuality(text string) string {
	if text == "" {
		return ""
	}
	upper := strings.ToUpper(text)
	for _, pat := range qualityPatterns {
		if match := pat.FindString(upper); match != "" {
			return strings.ReplaceAll(match, " ", "")
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
