package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rohmanhakim/nps-nearby/internal/extractor"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

var ErrUnknownFormat = errors.New("unknown report format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q (want md or html)", ErrUnknownFormat, s)
	}
}

// StateReport is the export of one state listing.
type StateReport struct {
	State     string
	SourceURL string
	Sites     []extractor.Site
}

func (r StateReport) Title() string {
	return "National sites in " + cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(r.State)))
}

// FileName is "<state-slug>.<format>", e.g. "new-york.md".
func (r StateReport) FileName(f Format) string {
	return Slug(r.State) + "." + string(f)
}

// Markdown renders the sites as a table in listing order.
func (r StateReport) Markdown() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	if r.SourceURL != "" {
		fmt.Fprintf(&b, "Source: <%s>\n\n", r.SourceURL)
	}
	if len(r.Sites) == 0 {
		b.WriteString("No sites listed.\n")
		return b.Bytes()
	}

	b.WriteString("| # | Name | Category | Address | Zipcode | Phone |\n")
	b.WriteString("|---|------|----------|---------|---------|-------|\n")
	for i, site := range r.Sites {
		name := escapeCell(site.Name)
		if site.URL != "" {
			name = fmt.Sprintf("[%s](%s)", name, site.URL)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1,
			name,
			escapeCell(site.Category),
			escapeCell(site.Address),
			escapeCell(site.Zipcode),
			escapeCell(site.Phone),
		)
	}
	return b.Bytes()
}

// HTML renders the Markdown form as a complete page.
func (r StateReport) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: r.Title(),
	})
	return markdown.ToHTML(r.Markdown(), p, renderer)
}

func (r StateReport) Render(f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return r.Markdown(), nil
	case FormatHTML:
		return r.HTML(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Slug lower-cases a state name and joins its words with dashes.
func Slug(state string) string {
	fields := strings.FieldsFunc(strings.ToLower(state), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(fields) == 0 {
		return "state"
	}
	return strings.Join(fields, "-")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
