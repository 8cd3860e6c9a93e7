package richtext

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "sentinel", raw: `[]`, want: true},
		{name: "empty string", raw: ``, want: true},
		{name: "doc without content", raw: `{"type":"doc","content":[]}`, want: true},
		{name: "doc with content key absent", raw: `{"type":"doc"}`, want: true},
		{name: "single empty paragraph", raw: `{"type":"doc","content":[{"type":"paragraph"}]}`, want: true},
		{name: "whitespace paragraph", raw: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"  "}]}]}`, want: true},
		{name: "text paragraph", raw: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hi"}]}]}`, want: false},
		{name: "single heading", raw: `{"type":"doc","content":[{"type":"heading","attrs":{"level":1}}]}`, want: false},
		{name: "two empty paragraphs", raw: `{"type":"doc","content":[{"type":"paragraph"},{"type":"paragraph"}]}`, want: false},
		{name: "bare list with text", raw: `[{"type":"paragraph","content":[{"type":"text","text":"x"}]}]`, want: false},
		{name: "single node", raw: `{"type":"bulletList","content":[]}`, want: false},
		{name: "invalid json", raw: `not json`, want: true},
		{name: "json scalar", raw: `42`, want: true},
		{name: "object without type", raw: `{"foo":"bar"}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.raw); got != tt.want {
				t.Errorf("IsEmpty(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantStatus FragmentStatus
		wantCount  int
		wantText   string // plain text of the first node, if any
	}{
		{name: "sentinel", raw: `[]`, wantStatus: FragmentBlank},
		{name: "blank", raw: `   `, wantStatus: FragmentBlank},
		{name: "empty doc", raw: `{"type":"doc","content":[]}`, wantStatus: FragmentBlank},
		{
			name:       "doc",
			raw:        `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hi"}]},{"type":"paragraph"}]}`,
			wantStatus: FragmentOK,
			wantCount:  2,
			wantText:   "Hi",
		},
		{
			name:       "bare list",
			raw:        `[{"type":"paragraph","content":[{"type":"text","text":"A"}]}]`,
			wantStatus: FragmentOK,
			wantCount:  1,
			wantText:   "A",
		},
		{
			name:       "single node",
			raw:        `{"type":"paragraph","content":[{"type":"text","text":"B"}]}`,
			wantStatus: FragmentOK,
			wantCount:  1,
			wantText:   "B",
		},
		{
			name:       "legacy plain text",
			raw:        `Students will read chapter 1`,
			wantStatus: FragmentSalvaged,
			wantCount:  1,
			wantText:   "Students will read chapter 1",
		},
		{
			name:       "json string",
			raw:        `"quoted text"`,
			wantStatus: FragmentSalvaged,
			wantCount:  1,
			wantText:   "quoted text",
		},
		{name: "object of unknown shape", raw: `{"foo":1}`, wantStatus: FragmentCorrupt},
		{name: "nested doc", raw: `[{"type":"doc"}]`, wantStatus: FragmentCorrupt},
		{name: "null", raw: `null`, wantStatus: FragmentCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, status := ParseFragment(tt.raw)
			if status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", status, tt.wantStatus)
			}
			if len(nodes) != tt.wantCount {
				t.Fatalf("len(nodes) = %d, want %d", len(nodes), tt.wantCount)
			}
			if tt.wantCount > 0 {
				if got := nodes[0].PlainText(); got != tt.wantText {
					t.Errorf("first node text = %q, want %q", got, tt.wantText)
				}
			}
		})
	}
}

func TestStringify(t *testing.T) {
	if got := Stringify(nil); got != EmptySentinel {
		t.Errorf("Stringify(nil) = %q, want %q", got, EmptySentinel)
	}

	want := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hi","marks":[{"type":"bold"}]}]}]}`
	got := Stringify([]Node{{Type: TypeParagraph, Content: []Node{Text("Hi", Mark{Type: "bold"})}}})
	if got != want {
		t.Errorf("Stringify() =\n%s\nwant\n%s", got, want)
	}

	// parse of the emitted form gives back the same string
	nodes, status := ParseFragment(got)
	if status != FragmentOK {
		t.Fatalf("status = %s, want ok", status)
	}
	if again := Stringify(nodes); again != got {
		t.Errorf("re-stringify =\n%s\nwant\n%s", again, got)
	}
}

func TestSalvageIsStable(t *testing.T) {
	// salvaged text is approximate, but once salvaged it parses as a normal fragment
	nodes, status := ParseFragment(`{broken json`)
	if status != FragmentSalvaged {
		t.Fatalf("status = %s, want salvaged", status)
	}
	first := Stringify(nodes)

	again, status := ParseFragment(first)
	if status != FragmentOK {
		t.Fatalf("second parse status = %s, want ok", status)
	}
	if second := Stringify(again); second != first {
		t.Errorf("salvage not stable:\n%s\n%s", first, second)
	}
}

func TestCanonicalDoc(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{
			name:   "editor key order",
			raw:    `{"type":"doc","content":[{"type":"paragraph","attrs":{"textAlign":"left","indent":0},"content":[{"type":"text","marks":[{"type":"bold"}],"text":"Hi"}]}]}`,
			want:   `{"type":"doc","content":[{"type":"paragraph","attrs":{"indent":0,"textAlign":"left"},"content":[{"type":"text","text":"Hi","marks":[{"type":"bold"}]}]}]}`,
			wantOK: true,
		},
		{name: "sentinel", raw: `[]`},
		{name: "bare list", raw: `[{"type":"paragraph"}]`},
		{name: "single node", raw: `{"type":"paragraph"}`},
		{name: "empty doc", raw: `{"type":"doc","content":[]}`},
		{name: "not json", raw: `{notes`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalDoc(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CanonicalDoc() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
