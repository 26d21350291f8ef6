package services

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/tadeyemo32/lpr-backend/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	profileHeadingRe = regexp.MustCompile(`^#{3}\s+(.*)$`)
	headingIndexRe   = regexp.MustCompile(`^(\d+)[.)]\s*`)
)

// SplitProfiles cuts profile text into one section per "###" heading. Text
// before the first heading is dropped. Text without any heading comes back
// as a single untitled section.
func SplitProfiles(text string) []models.ProfileSection {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		sections []models.ProfileSection
		cur      *models.ProfileSection
		body     []string
	)
	flush := func() {
		if cur != nil {
			cur.Markdown = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, *cur)
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := profileHeadingRe.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
			flush()
			cur = &models.ProfileSection{Title: strings.TrimSpace(m[1])}
			body = []string{line}
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()

	if len(sections) == 0 {
		return []models.ProfileSection{{Markdown: text}}
	}
	return sections
}

// MatchProfiles sets PersonIndex on each section. The number the model
// echoes at the start of a heading wins; otherwise the first person whose
// name appears in the heading (case-insensitive) and is not taken yet.
func MatchProfiles(people []models.Person, sections []models.ProfileSection) {
	taken := make([]bool, len(people))

	for i := range sections {
		if n, ok := headingIndex(sections[i].Title); ok && n >= 1 && n <= len(people) && !taken[n-1] {
			idx := n - 1
			sections[i].PersonIndex = &idx
			taken[idx] = true
		}
	}
	for i := range sections {
		if sections[i].PersonIndex != nil {
			continue
		}
		title := strings.ToLower(sections[i].Title)
		if title == "" {
			continue
		}
		// Longest name wins so "Ivan Petrov" does not claim "Ivan Petrova".
		best, bestLen := -1, 0
		for j, p := range people {
			name := strings.ToLower(strings.Join(strings.Fields(p.FullName), " "))
			if taken[j] || name == "" || !strings.Contains(title, name) {
				continue
			}
			if len(name) > bestLen {
				best, bestLen = j, len(name)
			}
		}
		if best >= 0 {
			idx := best
			sections[i].PersonIndex = &idx
			taken[best] = true
		}
	}
}

func headingIndex(title string) (int, bool) {
	m := headingIndexRe.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

var profileMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Raw HTML stays omitted (no html.WithUnsafe): the text is model-authored.
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderProfileHTML renders a profile section for display. Raw HTML and
// dangerous link schemes are dropped by the renderer; script, style and
// iframe nodes are stripped and every link opens in a new tab.
func RenderProfileHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := profileMarkdown.Convert([]byte(md), &buf); err != nil {
		return "", eris.Wrap(err, "render markdown")
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", eris.Wrap(err, "parse rendered html")
	}
	doc.Find("script, style, iframe, object, embed").Remove()
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		a.SetAttr("target", "_blank")
		a.SetAttr("rel", "noopener noreferrer")
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", eris.Wrap(err, "serialize html")
	}
	return strings.TrimSpace(out), nil
}

// BuildProfiles splits, matches and renders profile text.
func BuildProfiles(people []models.Person, text string) []models.ProfileSection {
	sections := SplitProfiles(text)
	MatchProfiles(people, sections)
	for i := range sections {
		rendered, err := RenderProfileHTML(sections[i].Markdown)
		if err != nil {
			continue
		}
		sections[i].HTML = rendered
	}
	if sections == nil {
		sections = []models.ProfileSection{}
	}
	return sections
}
