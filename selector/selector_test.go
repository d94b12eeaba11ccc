package selector

import "testing"

func TestRender_IDSuppressesClass(t *testing.T) {
	b := NewBuilder("div")
	b.AddRule(IDRule("main"))
	b.AddRule(ClassRule("box", "wide"))

	if got := b.Render(Full); got != "#main" {
		t.Errorf("Render(Full): got %q, want %q", got, "#main")
	}
	if got := b.Render(Class | Attributes); got != ".box.wide" {
		t.Errorf("Render(Class|Attributes): got %q, want %q", got, ".box.wide")
	}
}

func TestRender_TagFollowsNthOfType(t *testing.T) {
	b := NewBuilder("div")
	b.AddRule(ClassRule("ad"))
	b.AttachTag()
	b.AddRule(NthOfTypeRule(6))

	cases := []struct {
		mask Mask
		want string
	}{
		{Masks[0], ".ad"},
		{Masks[1], ".ad"},
		{Masks[2], ".ad"},
		{Masks[3], "div:nth-of-type(6)"},
		{Masks[4], "div.ad:nth-of-type(6)"},
	}
	for _, c := range cases {
		if got := b.Render(c.mask); got != c.want {
			t.Errorf("Render(%s): got %q, want %q", c.mask, got, c.want)
		}
	}
}

func TestRender_KeepsTagCase(t *testing.T) {
	b := NewBuilder("clipPath")
	if got := b.Render(Full); got != "clipPath" {
		t.Errorf("got %q, want %q", got, "clipPath")
	}
}

func TestRender_FallsBackToTag(t *testing.T) {
	b := NewBuilder("section")
	b.AddRule(IDRule("top"))

	if got := b.Render(Masks[0]); got != "section" {
		t.Errorf("Render(mask 0): got %q, want %q", got, "section")
	}
	if got := b.Render(Masks[3]); got != "#top" {
		t.Errorf("Render(mask 3): got %q, want %q", got, "#top")
	}
}

func TestRender_Attributes(t *testing.T) {
	b := NewBuilder("a")
	b.AddRule(AttributesRule(Attribute{Name: "href", Op: OpPrefix, Value: `https://x.test/say "hi"`}))

	want := `[href^="https://x.test/say \"hi\""]`
	if got := b.Render(Masks[0]); got != want {
		t.Errorf("Render: got %q, want %q", got, want)
	}
	if got := b.Render(Masks[3]); got != "a" {
		t.Errorf("Render without attributes: got %q, want %q", got, "a")
	}
}

func TestRender_Idempotent(t *testing.T) {
	b := NewBuilder("li")
	b.AddRule(ClassRule("item"))
	b.AttachTag()
	b.AddRule(NthOfTypeRule(2))

	for i, m := range Masks {
		first := b.Render(m)
		second := b.Render(m)
		if first != second {
			t.Errorf("mask %d: got %q then %q", i, first, second)
		}
	}
}

func TestBuilder_FrozenAfterRender(t *testing.T) {
	b := NewBuilder("p")
	b.AddRule(ClassRule("x"))
	before := b.Render(Full)

	b.AddRule(IDRule("late"))
	b.AttachTag()

	if got := b.Render(Full); got != before {
		t.Errorf("Render after freeze: got %q, want %q", got, before)
	}
	if b.HasID() {
		t.Error("HasID: got true after frozen AddRule")
	}
}

func TestBuilder_DropsEmptyRules(t *testing.T) {
	b := NewBuilder("div")
	b.AddRule(IDRule(""))
	b.AddRule(ClassRule())
	b.AddRule(AttributesRule())
	b.AddRule(NthOfTypeRule(0))

	if b.RuleCount() != 0 {
		t.Fatalf("RuleCount: got %d, want 0", b.RuleCount())
	}
	if got := b.String(); got != "div" {
		t.Errorf("String: got %q, want %q", got, "div")
	}
}

func TestEscapeIdent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"1st", `\31 st`},
		{"-2x", `-\32 x`},
		{"-", `\-`},
		{"a.b", `a\.b`},
		{"w:50%", `w\:50\%`},
		{"café", "café"},
		{"tab\there", `tab\9 here`},
		{"", ""},
	}
	for _, c := range cases {
		if got := EscapeIdent(c.in); got != c.want {
			t.Errorf("EscapeIdent(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskForLevel(t *testing.T) {
	if got := MaskForLevel(0); got != Masks[0] {
		t.Errorf("level 0: got %s, want %s", got, Masks[0])
	}
	if got := MaskForLevel(DefaultLevel); got != Masks[3] {
		t.Errorf("default level: got %s, want %s", got, Masks[3])
	}
	if got := MaskAt(9); got != Full {
		t.Errorf("MaskAt(9): got %s, want %s", got, Full)
	}
	if Masks[2].Has(NthOfType) || Masks[2].Has(Attributes) || !Masks[2].Has(Id) {
		t.Errorf("mask 2: got %s", Masks[2])
	}
}

func TestBuilder_PeekDoesNotFreeze(t *testing.T) {
	b := NewBuilder("div")
	b.AddRule(ClassRule("ad"))
	if got := b.Peek(Full); got != ".ad" {
		t.Fatalf("Peek: got %q, want %q", got, ".ad")
	}
	b.AttachTag()
	if got := b.Peek(Full); got != "div.ad" {
		t.Errorf("Peek after AttachTag: got %q, want %q", got, "div.ad")
	}
}
