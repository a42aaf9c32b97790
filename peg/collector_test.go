package peg

import "testing"

func TestLongestOnly(t *testing.T) {
	c := NewLongestOnly[Text]()
	if c.Cursor() != -1 {
		t.Fatalf("got cursor %d, want -1", c.Cursor())
	}

	c.Store(2, nil, "short")
	c.Store(5, nil, "long")
	c.Store(3, nil, "ignored")
	c.Store(5, nil, "also long")

	if c.Cursor() != 5 {
		t.Errorf("got cursor %d, want 5", c.Cursor())
	}
	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}
	if entries[0].Reason != "long" || entries[1].Reason != "also long" {
		t.Errorf("unexpected entries %v", entries)
	}
	for _, e := range entries {
		if e.Cursor != 5 || e.Suggestions == nil {
			t.Errorf("bad entry %+v", e)
		}
	}

	c.Finish(5)
	if len(c.Entries()) != 2 {
		t.Error("finish at the same cursor must keep entries")
	}
	c.Finish(7)
	if c.Cursor() != 7 || len(c.Entries()) != 0 {
		t.Errorf("finish past the failures must discard them, cursor %d entries %v", c.Cursor(), c.Entries())
	}

	c.Reset()
	if c.Cursor() != -1 || len(c.Entries()) != 0 {
		t.Error("reset should empty the collector")
	}
}

func TestNopCollector(t *testing.T) {
	var c ErrorCollector[Text] = NopCollector[Text]{}
	c.Store(1, nil, "x")
	c.Finish(2)
}
