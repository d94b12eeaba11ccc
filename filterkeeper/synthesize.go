package filterkeeper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/hazyhaar/elpick/dom/htmldoc"
	"github.com/hazyhaar/elpick/hostbridge"
	"github.com/hazyhaar/elpick/selector"
	"github.com/hazyhaar/elpick/synth"
)

var (
	// ErrNoSource is returned when neither a URL nor HTML is given.
	ErrNoSource = errors.New("filterkeeper: url or html required")
	// ErrNoMatch is returned when the target selector matches nothing.
	ErrNoMatch = errors.New("filterkeeper: no element matches target")
)

// maxPreview caps the Markdown preview of the target element.
const maxPreview = 2000

// SynthesizeRequest asks for selectors for the first element matching
// Target in a page given by URL or inline HTML.
type SynthesizeRequest struct {
	URL    string `json:"url,omitempty"`
	HTML   string `json:"html,omitempty"`
	Target string `json:"target"`
	// Level is the slider level 1..4 used for Selector. Default: 4.
	Level int `json:"level,omitempty"`
}

// Candidate is the selector synthesized under one specificity mask.
type Candidate struct {
	Index    int    `json:"index"`
	Mask     string `json:"mask"`
	Selector string `json:"selector"`
	Matches  int    `json:"matches"`
	Unique   bool   `json:"unique"`
}

// SynthesizeResult reports every candidate and the one picked for Level.
type SynthesizeResult struct {
	Host       string      `json:"host,omitempty"`
	Level      int         `json:"level"`
	Selector   string      `json:"selector"`
	Rule       string      `json:"rule,omitempty"`
	Candidates []Candidate `json:"candidates"`
	Preview    string      `json:"preview,omitempty"`
}

// Synthesize fetches or parses the page and synthesizes selectors.
func (k *Keeper) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResult, error) {
	src := req.HTML
	if src == "" {
		if req.URL == "" {
			return nil, ErrNoSource
		}
		page, err := k.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		src = string(page.HTML)
	}
	doc, err := htmldoc.ParseString(src)
	if err != nil {
		return nil, err
	}
	res, err := SynthesizeDocument(doc, req.Target, req.Level)
	if err != nil {
		return nil, err
	}
	if req.URL != "" {
		if host, err := hostbridge.HostOf(req.URL); err == nil {
			res.Host = host
			res.Rule = host + "##" + res.Selector
		}
	}
	k.logger.Debug("filterkeeper: synthesized", "url", req.URL, "target", req.Target, "selector", res.Selector)
	return res, nil
}

// SynthesizeDocument synthesizes selectors for the first element of doc
// matching target.
func SynthesizeDocument(doc *htmldoc.Document, target string, level int) (*SynthesizeResult, error) {
	target, err := ValidateSelector(target)
	if err != nil {
		return nil, err
	}
	el, err := doc.First(target)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, target)
	}

	if level == 0 {
		level = selector.DefaultLevel
	}
	level = selector.ClampLevel(level)

	res := &SynthesizeResult{Level: level}
	for i, sel := range synth.ResolveAll(doc, el) {
		c := Candidate{Index: i, Mask: selector.Masks[i].String(), Selector: sel}
		if els, err := doc.QuerySelectorAll(sel); err == nil {
			c.Matches = len(els)
			c.Unique = len(els) == 1
		}
		res.Candidates = append(res.Candidates, c)
	}
	res.Selector = res.Candidates[selector.IndexForLevel(level)].Selector
	res.Preview = preview(el.(*htmldoc.Element).Node())
	return res, nil
}

func preview(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(buf.String())
	if err != nil {
		return ""
	}
	md = strings.TrimSpace(md)
	if r := []rune(md); len(r) > maxPreview {
		md = string(r[:maxPreview]) + "…"
	}
	return md
}
