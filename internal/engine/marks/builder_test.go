package marks

import (
	"testing"
)

func TestBuilderEmpty(t *testing.T) {
	tree := NewBuilder(7).Build()
	if tree.Len() != 7 {
		t.Errorf("Len() = %d, want 7", tree.Len())
	}
	wantMarks(t, tree.Iter())
}

func TestBuilderMatchesIncrementalInsert(t *testing.T) {
	type add struct {
		at   int
		id   ID
		opts []MarkOption
	}
	adds := []add{
		{40, 5, nil},
		{0, 1, nil},
		{0, 2, []MarkOption{WithStartBias(BiasLeft)}},
		{12, 3, []MarkOption{WithWidth(9)}},
		{21, 4, []MarkOption{WithWidth(3), WithEndBias(BiasLeft)}},
		{40, 6, []MarkOption{WithWidth(0)}},
		{39, 7, nil},
	}

	b := NewBuilder(40)
	inc := New(40)
	for _, a := range adds {
		b.Add(a.at, a.id, a.opts...)
		inc.Insert(a.at, a.id, a.opts...)
	}
	bulk := b.Build()
	checkInvariants(t, bulk)

	want := inc.Marks()
	got := bulk.Marks()
	if len(got) != len(want) {
		t.Fatalf("bulk tree holds %v, incremental %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("mark %d: bulk %v, incremental %v", i, got[i], want[i])
		}
	}

	// The two trees must keep agreeing after edits, bias included.
	edit := Range{21, 22}
	bulk.Shift(edit, 4)
	inc.Shift(edit, 4)
	got, want = bulk.Marks(), inc.Marks()
	if len(got) != len(want) {
		t.Fatalf("after shift: bulk holds %v, incremental %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("after shift, mark %d: bulk %v, incremental %v", i, got[i], want[i])
		}
	}
	if bulk.Len() != inc.Len() {
		t.Errorf("after shift: bulk Len() = %d, incremental %d", bulk.Len(), inc.Len())
	}
}

func TestBuilderUnsortedInput(t *testing.T) {
	b := NewBuilder(100)
	for i := 99; i >= 0; i-- {
		b.Add(i, ID(i+1))
	}
	tree := b.Build()
	checkInvariants(t, tree)

	if tree.Count() != 100 {
		t.Fatalf("Count() = %d, want 100", tree.Count())
	}
	for it, i := tree.Iter(), 0; it.Next(); i++ {
		m := it.Mark()
		if m.ID != ID(i+1) || m.Range.Start != i {
			t.Fatalf("mark %d = %v, want id %d at %d", i, m, i+1, i)
		}
	}
}

func TestBuilderMarkAtEndOfDocument(t *testing.T) {
	tree := NewBuilder(10).
		Add(10, 1).
		Add(0, 2, WithWidth(10)).
		Build()

	wantMarks(t, tree.Iter(), mk(2, 0, 10), mk(1, 10, 10))
	if tree.Len() != 10 {
		t.Errorf("Len() = %d, want 10", tree.Len())
	}
}

func TestBuilderChaining(t *testing.T) {
	tree := NewBuilder(5).Add(1, 1).Add(2, 2).Add(3, 3).Build()
	wantMarks(t, tree.Iter(), mk(1, 1, 1), mk(2, 2, 2), mk(3, 3, 3))
}
