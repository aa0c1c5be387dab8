package text

import (
	"strings"
	"testing"
)

func TestEmpty(t *testing.T) {
	var txt Text
	if txt.Len() != 0 {
		t.Errorf("Len() = %d, want 0", txt.Len())
	}
	if txt.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", txt.LineCount())
	}
	if txt.String() != "" {
		t.Errorf("String() = %q, want empty", txt.String())
	}
	if got := FromString(""); got.Len() != 0 {
		t.Errorf("FromString(\"\").Len() = %d, want 0", got.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"a",
		"hello, world",
		"line one\nline two\nline three\n",
		strings.Repeat("chunky boundary test ", 100),
	}
	for _, c := range cases {
		txt := FromString(c)
		if txt.String() != c {
			t.Errorf("round trip of %d bytes lost content", len(c))
		}
		if txt.Len() != len(c) {
			t.Errorf("Len() = %d, want %d", txt.Len(), len(c))
		}
		if want := strings.Count(c, "\n") + 1; txt.LineCount() != want {
			t.Errorf("LineCount() = %d, want %d", txt.LineCount(), want)
		}
	}
}

func TestSlice(t *testing.T) {
	content := strings.Repeat("0123456789", 50)
	txt := FromString(content)

	cases := []struct{ start, end int }{
		{0, 0},
		{0, 10},
		{5, 7},
		{120, 260}, // spans chunk boundaries
		{495, 500},
		{0, 500},
	}
	for _, c := range cases {
		if got, want := txt.Slice(c.start, c.end), content[c.start:c.end]; got != want {
			t.Errorf("Slice(%d, %d) = %q, want %q", c.start, c.end, got, want)
		}
	}
}

func TestReplace(t *testing.T) {
	txt := FromString("hello, world")

	t.Run("insert", func(t *testing.T) {
		got := txt.Insert(5, " there")
		if got.String() != "hello there, world" {
			t.Errorf("got %q", got.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		got := txt.Delete(5, 12)
		if got.String() != "hello" {
			t.Errorf("got %q", got.String())
		}
	})

	t.Run("replace middle", func(t *testing.T) {
		got := txt.Replace(7, 12, "rope")
		if got.String() != "hello, rope" {
			t.Errorf("got %q", got.String())
		}
	})

	t.Run("replace everything", func(t *testing.T) {
		got := txt.Replace(0, txt.Len(), "fresh")
		if got.String() != "fresh" {
			t.Errorf("got %q", got.String())
		}
	})

	t.Run("receiver unchanged", func(t *testing.T) {
		txt.Replace(0, 12, "clobbered")
		if txt.String() != "hello, world" {
			t.Errorf("receiver mutated to %q", txt.String())
		}
	})
}

func TestReplaceAcrossChunks(t *testing.T) {
	content := strings.Repeat("abcdefghij", 100)
	txt := FromString(content)

	got := txt.Replace(250, 750, "MID")
	want := content[:250] + "MID" + content[750:]
	if got.String() != want {
		t.Errorf("replace across chunks diverged at len %d vs %d", got.Len(), len(want))
	}

	// A long run of point edits keeps the value consistent.
	cur, ref := txt, content
	for i := 0; i < 200; i++ {
		at := (i * 37) % (len(ref) + 1)
		cur = cur.Insert(at, "x")
		ref = ref[:at] + "x" + ref[at:]
	}
	if cur.String() != ref {
		t.Error("incremental inserts diverged from reference")
	}
	if cur.Len() != len(ref) {
		t.Errorf("Len() = %d, want %d", cur.Len(), len(ref))
	}
}

func TestLines(t *testing.T) {
	txt := FromString("alpha\nbeta\n\ngamma")

	if txt.LineCount() != 4 {
		t.Fatalf("LineCount() = %d, want 4", txt.LineCount())
	}

	starts := []int{0, 6, 11, 12}
	lines := []string{"alpha", "beta", "", "gamma"}
	for i := range starts {
		if got := txt.LineStart(i); got != starts[i] {
			t.Errorf("LineStart(%d) = %d, want %d", i, got, starts[i])
		}
		if got := txt.Line(i); got != lines[i] {
			t.Errorf("Line(%d) = %q, want %q", i, got, lines[i])
		}
	}

	atChecks := []struct{ offset, line int }{
		{0, 0}, {5, 0}, {6, 1}, {10, 1}, {11, 2}, {12, 3}, {16, 3}, {17, 3},
	}
	for _, c := range atChecks {
		if got := txt.LineAt(c.offset); got != c.line {
			t.Errorf("LineAt(%d) = %d, want %d", c.offset, got, c.line)
		}
	}
}

func TestLinesAcrossChunks(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString("line with some padding text\n")
	}
	txt := FromString(sb.String())

	if txt.LineCount() != 301 {
		t.Fatalf("LineCount() = %d, want 301", txt.LineCount())
	}
	for _, i := range []int{0, 1, 42, 150, 299} {
		want := i * 28
		if got := txt.LineStart(i); got != want {
			t.Errorf("LineStart(%d) = %d, want %d", i, got, want)
		}
		if got := txt.LineAt(want); got != i {
			t.Errorf("LineAt(%d) = %d, want %d", want, got, i)
		}
	}
	if got := txt.Line(299); got != "line with some padding text" {
		t.Errorf("Line(299) = %q", got)
	}
	if got := txt.Line(300); got != "" {
		t.Errorf("Line(300) = %q, want empty", got)
	}
}
