package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/dom/htmldoc"
	"github.com/hazyhaar/elpick/selector"
)

func adsPage() string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div id="box">`)
	sb.WriteString(`<div id="ad-1" class="ad">0</div>`)
	for i := 1; i < 10; i++ {
		sb.WriteString(`<div class="ad">x</div>`)
	}
	sb.WriteString(`</div><section>`)
	for i := 0; i < 7; i++ {
		sb.WriteString(`<div>s</div>`)
	}
	sb.WriteString(`</section>`)
	sb.WriteString(`<ul><li>a</li><li>b</li></ul>`)
	sb.WriteString(`<a href="https://ads.test/click?id=3#x">link</a>`)
	sb.WriteString(`<img src="data:image/png;base64,AAAA">`)
	sb.WriteString(`<img alt="banner">`)
	sb.WriteString(`<iframe src="https://f.test/` + strings.Repeat("x", 300) + `"></iframe>`)
	sb.WriteString(`<div id="dup">d</div><div id="dup">d</div>`)
	sb.WriteString(`</body></html>`)
	return sb.String()
}

func mustDoc(t *testing.T) *htmldoc.Document {
	t.Helper()
	d, err := htmldoc.ParseString(adsPage())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return d
}

func mustFirst(t *testing.T, d *htmldoc.Document, sel string) dom.Element {
	t.Helper()
	el, err := d.First(sel)
	if err != nil || el == nil {
		t.Fatalf("first %q: el=%v err=%v", sel, el, err)
	}
	return el
}

func TestDescribe_UniqueID(t *testing.T) {
	d := mustDoc(t)
	el := mustFirst(t, d, "#ad-1")

	got := Describe(d, el).Render(selector.Full)
	if got != "#ad-1" {
		t.Fatalf("got %q, want %q", got, "#ad-1")
	}
	els, _ := d.QuerySelectorAll(got)
	if len(els) != 1 || els[0] != el {
		t.Errorf("selector %q matched %d elements", got, len(els))
	}
}

func TestDescribe_DuplicateIDFallsBackToStructure(t *testing.T) {
	d := mustDoc(t)
	el := mustFirst(t, d, "#dup")

	b := Describe(d, el)
	if b.HasID() {
		t.Error("duplicate id recorded as Id rule")
	}
	if got := b.Render(selector.Full); got != "div:nth-of-type(2)" {
		t.Errorf("got %q, want %q", got, "div:nth-of-type(2)")
	}
}

func TestDescribe_AttributeFallback(t *testing.T) {
	d := mustDoc(t)
	cases := []struct{ find, want string }{
		{"a", `[href^="https://ads.test/click"]`},
		{"img[src]", `[src*="AAAA"]`},
		{"img[alt]", `[alt="banner"]`},
		{"iframe", `[src^="https://f.test/` + strings.Repeat("x", 256-len("https://f.test/")) + `"]`},
	}
	for _, c := range cases {
		el := mustFirst(t, d, c.find)
		if got := Describe(d, el).Render(selector.Full); got != c.want {
			t.Errorf("%s: got %q, want %q", c.find, got, c.want)
		}
	}
}

func TestDescribe_EmptyAttributeIgnored(t *testing.T) {
	d, err := htmldoc.ParseString(`<body><a href="?only=query">x</a><img src=""></body>`)
	if err != nil {
		t.Fatal(err)
	}
	a := mustFirst(t, d, "a")
	b := Describe(d, a)
	if b.RuleCount() != 0 {
		t.Errorf("rules: got %d, want 0", b.RuleCount())
	}
	if got := b.Render(selector.Full); got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestResolve_AdsScenario(t *testing.T) {
	d := mustDoc(t)
	target := mustFirst(t, d, "#box > div:nth-of-type(6)")

	cases := []struct {
		index   int
		want    string
		matches int
	}{
		{0, ".ad", 10},
		{1, "div > .ad", 10},
		{2, "#box > .ad", 10},
		{3, "#box > div:nth-of-type(6)", 1},
		{4, "div.ad:nth-of-type(6)", 1},
	}
	for _, c := range cases {
		got := Resolve(d, target, c.index)
		if got != c.want {
			t.Errorf("mask %d: got %q, want %q", c.index, got, c.want)
			continue
		}
		els, err := d.QuerySelectorAll(got)
		if err != nil {
			t.Fatalf("mask %d: query %q: %v", c.index, got, err)
		}
		if len(els) != c.matches {
			t.Errorf("mask %d: %q matched %d, want %d", c.index, got, len(els), c.matches)
		}
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	d := mustDoc(t)
	all, err := d.QuerySelectorAll("body *")
	if err != nil {
		t.Fatal(err)
	}
	for _, el := range all {
		for i := range selector.Masks {
			sel := Resolve(d, el, i)
			if sel == "" {
				t.Errorf("%v mask %d: empty selector", el, i)
				continue
			}
			els, err := d.QuerySelectorAll(sel)
			if err != nil {
				t.Errorf("%v mask %d: %q does not parse: %v", el, i, sel, err)
				continue
			}
			if !dom.Contains(els, el) {
				t.Errorf("%v mask %d: %q does not match the picked element", el, i, sel)
			}
		}
	}
}

func TestResolve_SVGCamelCase(t *testing.T) {
	d, err := htmldoc.ParseString(`<html><body><svg><defs>` +
		`<clipPath></clipPath><clipPath></clipPath><linearGradient></linearGradient>` +
		`</defs><foreignObject><p>x</p></foreignObject></svg></body></html>`)
	if err != nil {
		t.Fatal(err)
	}

	second := mustFirst(t, d, "clipPath:nth-of-type(2)")
	if got := second.LocalName(); got != "clipPath" {
		t.Fatalf("LocalName: got %q, want %q", got, "clipPath")
	}
	if got := Resolve(d, second, 4); got != "clipPath:nth-of-type(2)" {
		t.Errorf("full mask: got %q, want %q", got, "clipPath:nth-of-type(2)")
	}

	all, err := d.QuerySelectorAll("svg *")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Fatalf("svg descendants: got %d, want 6", len(all))
	}
	for _, el := range all {
		for i := range selector.Masks {
			sel := Resolve(d, el, i)
			els, err := d.QuerySelectorAll(sel)
			if err != nil || !dom.Contains(els, el) {
				t.Errorf("%v mask %d: %q does not match the picked element (err %v)", el, i, sel, err)
			}
		}
	}
}

func TestResolve_Body(t *testing.T) {
	d := mustDoc(t)
	if got := Resolve(d, d.Body(), 4); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := Resolve(d, nil, 4); got != "" {
		t.Errorf("nil target: got %q, want empty", got)
	}
}

func TestResolve_ClampsIndex(t *testing.T) {
	d := mustDoc(t)
	target := mustFirst(t, d, "#box > div:nth-of-type(6)")
	if got, want := Resolve(d, target, 42), Resolve(d, target, 4); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := ResolveLevel(d, target, 0), ".ad"; got != want {
		t.Errorf("level 0: got %q, want %q", got, want)
	}
}

func TestResolveAll(t *testing.T) {
	d := mustDoc(t)
	target := mustFirst(t, d, "#ad-1")
	all := ResolveAll(d, target)
	if all[4] != "#ad-1" {
		t.Errorf("full mask: got %q, want %q", all[4], "#ad-1")
	}
	if all[0] != ".ad" {
		t.Errorf("mask 0: got %q, want %q", all[0], ".ad")
	}
}

func TestIsUnique(t *testing.T) {
	d := mustDoc(t)
	if !IsUnique(d, "#ad-1") {
		t.Error("#ad-1 should be unique")
	}
	if IsUnique(d, ".ad") {
		t.Error(".ad should not be unique")
	}
	if IsUnique(d, "##bad[[selector") {
		t.Error("malformed selector reported unique")
	}
}

// failingDoc rejects every query.
type failingDoc struct{}

var errQuery = errors.New("query failed")

func (failingDoc) QuerySelectorAll(string) ([]dom.Element, error) { return nil, errQuery }
func (failingDoc) QueryChildren(dom.Element, string) ([]dom.Element, error) {
	return nil, errQuery
}

func TestResolve_QueryErrorsAreZeroMatches(t *testing.T) {
	d := mustDoc(t)
	target := mustFirst(t, d, "#ad-1")

	b := Describe(failingDoc{}, target)
	if b.HasID() {
		t.Error("Id rule recorded although the uniqueness query failed")
	}
	if got := Resolve(failingDoc{}, target, 0); got != ".ad" {
		t.Errorf("got %q, want %q", got, ".ad")
	}
}
