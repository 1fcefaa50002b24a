package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.MetadataExtractor = (*MetadataExtractor)(nil)

var (
	brandAndName   = regexp.MustCompile(`"brand_and_name":"((?:\\.|[^"\\])*)"`)
	notubeID       = regexp.MustCompile(`"notube_id":"((?:\\.|[^"\\])*)"`)
	embeddedImage  = regexp.MustCompile(`"image":"((?:\\.|[^"\\])*)"`)
	mediaThumbnail = regexp.MustCompile(`"media_thumbnail":"((?:\\.|[^"\\])*)"`)
	yearPattern    = regexp.MustCompile(`\b(20\d{2})\b`)
	clientPattern  = regexp.MustCompile(`(?i)^(?:client|brand)\s*[:\-]\s*(.+)$`)
)

const (
	videoURLFormat = "https://notube.lbbonline.com/v/%s"
	imageCDN       = "https://d3q27bh1u24u2o.cloudfront.net/"
	siteSuffix     = " | LBBOnline"
)

var (
	titleSelectors       = []string{"h1", ".title", "header h2", ".main-title", "article h1"}
	descriptionSelectors = []string{".description", ".field--name-field-description", ".rich-text.space-y-5 p", ".award-content-intro", "article p"}
	infoSelectors        = []string{".field--name-field-basic-info .field__item", ".credit-meta div", ".award-meta-details", ".project-info li", ".metadata li", ".details div"}
	posterSelectors      = []string{".hero img", ".main-image img", ".featured-image img", ".project-image img", "figure img"}
	videoHosts           = []string{"youtube", "youtu.be", "vimeo", "lbbonline", "player", "video"}
)

// MetadataExtractor extracts title, description, project facts and media.
// Embedded page keys are preferred when present; generic selectors, meta
// tags and, optionally, fallback extractors fill what remains.
type MetadataExtractor struct {
	fallbacks []credex.MetadataExtractor
}

// MetadataOption configures a MetadataExtractor.
type MetadataOption func(*MetadataExtractor)

// WithFallback adds an extractor consulted for fields still empty after
// the page's own markup has been read. Fallbacks run in the order added.
func WithFallback(fallback credex.MetadataExtractor) MetadataOption {
	return func(m *MetadataExtractor) {
		m.fallbacks = append(m.fallbacks, fallback)
	}
}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor(opts ...MetadataOption) *MetadataExtractor {
	m := &MetadataExtractor{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ExtractMetadata returns a partial record with no companies.
func (m *MetadataExtractor) ExtractMetadata(rawHTML string, pageURL string) (*credex.PartialRecord, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(pageURL)
	record := &credex.PartialRecord{URL: pageURL}

	if credex.HostMatches(credex.Domain(pageURL), "lbbonline.com") || strings.Contains(rawHTML, markerCredits) {
		embeddedMetadata(rawHTML, record)
	}

	if record.Title == "" {
		record.Title = firstOf(doc.Selection, titleSelectors)
	}
	if record.Title == "" {
		record.Title = metaContent(doc, "og:title")
	}
	if record.Title == "" {
		record.Title = strings.TrimSuffix(text(doc.Find("title").First()), siteSuffix)
	}

	record.Description = firstOf(doc.Selection, descriptionSelectors)
	if record.Description == "" {
		record.Description = metaContent(doc, "description")
	}
	if record.Description == "" {
		record.Description = metaContent(doc, "og:description")
	}

	projectInfo(doc, record)
	collectMedia(doc.Find("iframe, video, a[href]"), base, record)
	if record.PosterImage == "" {
		record.PosterImage = resolveURL(base, metaContent(doc, "og:image"))
	}
	if record.PosterImage == "" {
		record.PosterImage = posterImage(doc, base)
	}

	for _, fallback := range m.fallbacks {
		if record.Title != "" && record.Description != "" && record.Date != "" && record.PosterImage != "" {
			break
		}
		if fb, err := fallback.ExtractMetadata(rawHTML, pageURL); err == nil && fb != nil {
			fillBlank(&record.Title, fb.Title)
			fillBlank(&record.Description, fb.Description)
			fillBlank(&record.Date, fb.Date)
			fillBlank(&record.PosterImage, fb.PosterImage)
		}
	}
	return record, nil
}

// embeddedMetadata reads the keys embedded next to the credits payload.
func embeddedMetadata(rawHTML string, record *credex.PartialRecord) {
	if m := brandAndName.FindStringSubmatch(rawHTML); m != nil {
		value := credex.CleanText(decodeEmbeddedString(m[1]))
		if brand, title, ok := strings.Cut(value, " - "); ok {
			record.Client = strings.TrimSpace(brand)
			record.Title = strings.TrimSpace(title)
		} else {
			record.Title = value
		}
	}
	if m := notubeID.FindStringSubmatch(rawHTML); m != nil {
		if id := decodeEmbeddedString(m[1]); id != "" {
			record.VideoLinks = append(record.VideoLinks, fmt.Sprintf(videoURLFormat, url.PathEscape(id)))
		}
	}
	if m := embeddedImage.FindStringSubmatch(rawHTML); m != nil {
		if path := decodeEmbeddedString(m[1]); path != "" {
			if strings.HasPrefix(path, "http") {
				record.PosterImage = path
			} else {
				record.PosterImage = imageCDN + strings.TrimPrefix(path, "/")
			}
		}
	}
	if record.PosterImage == "" {
		if m := mediaThumbnail.FindStringSubmatch(rawHTML); m != nil {
			thumb := decodeEmbeddedString(m[1])
			if strings.HasPrefix(thumb, "//") {
				thumb = "https:" + thumb
			}
			record.PosterImage = thumb
		}
	}
}

// projectInfo reads "Key: Value" facts about the project.
func projectInfo(doc *goquery.Document, record *credex.PartialRecord) {
	var facts []string
	for _, sel := range infoSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := text(s); t != "" {
				facts = append(facts, t)
			}
		})
	}

	for _, fact := range facts {
		if m := clientPattern.FindStringSubmatch(fact); m != nil {
			fillBlank(&record.Client, m[1])
			continue
		}
		key, value, ok := strings.Cut(fact, ":")
		if !ok {
			continue
		}
		key, value = strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)
		switch {
		case strings.Contains(key, "date") || strings.Contains(key, "year"):
			fillBlank(&record.Date, value)
		case strings.Contains(key, "location") || strings.Contains(key, "country") || strings.Contains(key, "city"):
			fillBlank(&record.Location, value)
		case strings.Contains(key, "format") || strings.Contains(key, "media") || strings.Contains(key, "type"):
			fillBlank(&record.Format, value)
		}
	}

	if record.Date == "" {
		for _, fact := range facts {
			if m := yearPattern.FindStringSubmatch(fact); m != nil {
				record.Date = m[1]
				break
			}
		}
	}
}

// collectMedia adds video links and, for images, the poster from sel.
func collectMedia(sel *goquery.Selection, base *url.URL, record *credex.PartialRecord) {
	sel.Each(func(_ int, s *goquery.Selection) {
		switch {
		case s.Is("iframe"):
			if src := resolveURL(base, s.AttrOr("src", "")); isVideoURL(src) {
				record.VideoLinks = append(record.VideoLinks, src)
			}
		case s.Is("video, source"):
			if src := resolveURL(base, s.AttrOr("src", "")); src != "" {
				record.VideoLinks = append(record.VideoLinks, src)
			}
			s.Find("source[src]").Each(func(_ int, source *goquery.Selection) {
				record.VideoLinks = append(record.VideoLinks, resolveURL(base, source.AttrOr("src", "")))
			})
		case s.Is("a"):
			href := s.AttrOr("href", "")
			if isNonHTTPLink(href) {
				return
			}
			if u := resolveURL(base, href); isVideoPage(u) {
				record.VideoLinks = append(record.VideoLinks, u)
			}
		case s.Is("img"):
			if record.PosterImage == "" {
				record.PosterImage = resolveURL(base, s.AttrOr("src", ""))
			}
		default:
			if record.PosterImage == "" {
				if src, ok := s.Find("img[src]").First().Attr("src"); ok {
					record.PosterImage = resolveURL(base, src)
				}
			}
		}
	})
}

func isVideoURL(u string) bool {
	lower := strings.ToLower(u)
	for _, host := range videoHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// isVideoPage matches links to hosted video pages, not arbitrary site links.
func isVideoPage(u string) bool {
	lower := strings.ToLower(u)
	return strings.Contains(lower, "youtube.com/watch") ||
		strings.Contains(lower, "youtu.be/") ||
		strings.Contains(lower, "vimeo.com/") ||
		strings.Contains(lower, "/player/")
}

// posterImage returns a hero image, or the first image declared at least 400px wide.
func posterImage(doc *goquery.Document, base *url.URL) string {
	for _, sel := range posterSelectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			return resolveURL(base, src)
		}
	}
	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		width, err := strconv.Atoi(strings.TrimSuffix(img.AttrOr("width", ""), "px"))
		if err == nil && width >= 400 {
			found = resolveURL(base, img.AttrOr("src", ""))
			return false
		}
		return true
	})
	return found
}

// metaContent returns the content of a meta tag by name or property.
func metaContent(doc *goquery.Document, key string) string {
	sel := doc.Find("meta[name='" + key + "'], meta[property='" + key + "']").First()
	return credex.CleanText(sel.AttrOr("content", ""))
}

func firstOf(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if t := firstText(root, sel); t != "" {
			return t
		}
	}
	return ""
}

func fillBlank(dst *string, value string) {
	if *dst == "" {
		*dst = credex.CleanText(value)
	}
}
