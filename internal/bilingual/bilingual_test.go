package bilingual

import "testing"

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   Text
		want []Text
	}{
		{
			name: "paired paragraphs",
			in:   Text{EN: "First.\n\nSecond.", FA: "اول.\n\nدوم."},
			want: []Text{{EN: "First.", FA: "اول."}, {EN: "Second.", FA: "دوم."}},
		},
		{
			name: "single fa reused",
			in:   Text{EN: "First.\n\nSecond.", FA: "یک ترجمه."},
			want: []Text{{EN: "First.", FA: "یک ترجمه."}, {EN: "Second.", FA: "یک ترجمه."}},
		},
		{
			name: "missing fa tail left empty",
			in:   Text{EN: "A.\n\nB.\n\nC.", FA: "الف.\n\nب."},
			want: []Text{{EN: "A.", FA: "الف."}, {EN: "B.", FA: "ب."}, {EN: "C."}},
		},
		{
			name: "blank lines with spaces",
			in:   Text{EN: "A.\n   \nB."},
			want: []Text{{EN: "A."}, {EN: "B."}},
		},
		{
			name: "empty",
			in:   Text{},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d paragraphs, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsIncompleteFA(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"pure persian", "این یک جمله کامل است.", false},
		{"two latin letters ok", "نسخه A1 جدید", false},
		{"three latin letters", "این text است", true},
		{"all latin", "not translated yet", true},
		{"empty", "", true},
		{"whitespace only", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIncompleteFA(tt.in); got != tt.want {
				t.Errorf("IsIncompleteFA(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func buildBlock(t *testing.T) (root, toggle, fa *Node) {
	t.Helper()
	root = NewNode("section")
	block := root.Append(NewNode("div", "bilingual"))
	block.Append(NewNode("p", "en"))
	toggle = block.Append(NewNode("button", ClassToggle))
	fa = block.Append(NewNode("p", ClassFA, ClassHidden))
	return root, toggle, fa
}

func TestClickTogglesPersian(t *testing.T) {
	root, toggle, fa := buildBlock(t)
	h := NewController().Attach(root)

	if !fa.HasClass(ClassHidden) {
		t.Fatal("fa must start hidden")
	}
	if !h.Click(toggle) {
		t.Fatal("click on toggle did not fire")
	}
	if fa.HasClass(ClassHidden) {
		t.Error("fa still hidden after toggle")
	}
	if !toggle.HasClass(ClassOpen) {
		t.Error("toggle not marked open")
	}
	if !h.Click(toggle) {
		t.Fatal("second click did not fire")
	}
	if !fa.HasClass(ClassHidden) {
		t.Error("fa not hidden again after second toggle")
	}
}

func TestClickOnToggleDescendant(t *testing.T) {
	root, toggle, fa := buildBlock(t)
	icon := toggle.Append(NewNode("span"))
	h := NewController().Attach(root)

	if !h.Click(icon) {
		t.Fatal("click inside toggle did not fire")
	}
	if fa.HasClass(ClassHidden) {
		t.Error("fa still hidden")
	}
}

func TestClickIgnoresNoToggle(t *testing.T) {
	root, toggle, fa := buildBlock(t)
	link := toggle.Append(NewNode("a", ClassNoToggle))
	h := NewController().Attach(root)

	if h.Click(link) {
		t.Fatal("click on no-toggle element fired a toggle")
	}
	if !fa.HasClass(ClassHidden) {
		t.Error("fa revealed by a no-toggle click")
	}
}

func TestClickOutsideToggle(t *testing.T) {
	root, _, fa := buildBlock(t)
	h := NewController().Attach(root)

	if h.Click(root) {
		t.Fatal("click outside any toggle fired")
	}
	if !fa.HasClass(ClassHidden) {
		t.Error("fa revealed without a toggle")
	}
}

func TestAttachIdempotent(t *testing.T) {
	root, toggle, fa := buildBlock(t)
	c := NewController()
	h1 := c.Attach(root)
	h2 := c.Attach(root)
	if h1 != h2 {
		t.Fatal("second Attach returned a new handle")
	}

	// One click flips state exactly once even after double attach.
	h1.Click(toggle)
	if fa.HasClass(ClassHidden) {
		t.Error("fa hidden after one click")
	}

	h1.Detach()
	if c.Attached(root) {
		t.Error("root still attached after Detach")
	}
	if h1.Click(toggle) {
		t.Error("detached handle still fires")
	}
}

func TestKeydown(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"enter activates", "Enter", true},
		{"space activates", " ", true},
		{"tab ignored", "Tab", false},
		{"letter ignored", "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, toggle, fa := buildBlock(t)
			h := NewController().Attach(root)
			got := h.Keydown(toggle, tt.key)
			if got != tt.want {
				t.Fatalf("Keydown(%q) = %v, want %v", tt.key, got, tt.want)
			}
			if revealed := !fa.HasClass(ClassHidden); revealed != tt.want {
				t.Errorf("fa revealed = %v, want %v", revealed, tt.want)
			}
		})
	}
}

func TestKeydownOffToggleIgnored(t *testing.T) {
	root, _, fa := buildBlock(t)
	h := NewController().Attach(root)
	if h.Keydown(root, "Enter") {
		t.Fatal("Enter on a non-toggle consumed")
	}
	if !fa.HasClass(ClassHidden) {
		t.Error("fa revealed")
	}
}

func TestNewBlockDefaultHidden(t *testing.T) {
	block := NewBlock(Text{EN: "Hello.", FA: "سلام."})
	fa := block.Find(ClassFA)
	if fa == nil {
		t.Fatal("no fa node in block")
	}
	if !fa.HasClass(ClassHidden) {
		t.Error("fa not hidden by default")
	}
	if block.Find(ClassToggle) == nil {
		t.Error("no toggle in block")
	}

	plain := NewBlock(Text{EN: "Hello."})
	if plain.Find(ClassToggle) != nil {
		t.Error("toggle present without Persian text")
	}
}
