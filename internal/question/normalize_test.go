package question

import "testing"

func TestNormalizeArrayOptions(t *testing.T) {
	raw := []byte(`[{"id":"n1","question":"VFR minimum?","options":["1000 ft","1500 ft","500 ft"],"correct_label":"b","explanation":"per regs"}]`)
	qs, err := NormalizeSet(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	if q.ID != "n1" || q.Text != "VFR minimum?" || q.Explanation != "per regs" {
		t.Fatalf("fields not mapped: %+v", q)
	}
	if len(q.Options) != 3 || q.Options[1] != "1500 ft" {
		t.Fatalf("options not mapped: %v", q.Options)
	}
	if q.CorrectLabel != "b" || q.CorrectIndex() != 1 {
		t.Fatalf("answer not mapped: %q", q.CorrectLabel)
	}
}

func TestNormalizeLetterKeyedOptions(t *testing.T) {
	raw := []byte(`[{"id":"n2","text":"Q","options":{"b":"two","a":"one","c":"three"},"answer":"C"}]`)
	qs, err := NormalizeSet(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	q := qs[0]
	want := []string{"one", "two", "three"}
	if len(q.Options) != 3 {
		t.Fatalf("options = %v", q.Options)
	}
	for i, w := range want {
		if q.Options[i] != w {
			t.Fatalf("options[%d] = %q, want %q (letter order must win over map order)", i, q.Options[i], w)
		}
	}
	if q.CorrectLabel != "c" {
		t.Fatalf("upper-case answer letter should lower-case, got %q", q.CorrectLabel)
	}
}

func TestNormalizeObjectOptions(t *testing.T) {
	raw := []byte(`[{"qid":"n3","title":"Q","choices":[{"text":"alpha"},{"text":"bravo"}],"correct":"0"}]`)
	qs, err := NormalizeSet(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	q := qs[0]
	if q.ID != "n3" {
		t.Fatalf("qid synonym not honored: %q", q.ID)
	}
	if len(q.Options) != 2 || q.Options[0] != "alpha" {
		t.Fatalf("object options not mapped: %v", q.Options)
	}
}

func TestNormalizeAnswerSynonyms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"index", `[{"text":"Q","options":["x","y","z"],"correct_answer":2}]`, "c"},
		{"full text", `[{"text":"Q","options":["x","y","z"],"ans":"Y"}]`, "b"},
		{"letter", `[{"text":"Q","options":["x","y"],"correct":"a"}]`, "a"},
		{"out of range index", `[{"text":"Q","options":["x","y"],"answer":9}]`, ""},
		{"letter beyond options", `[{"text":"Q","options":["x","y"],"answer":"d"}]`, ""},
		{"missing", `[{"text":"Q","options":["x","y"]}]`, ""},
	}
	for _, c := range cases {
		qs, err := NormalizeSet([]byte(c.raw))
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got := qs[0].CorrectLabel; got != c.want {
			t.Fatalf("%s: correct label = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestNormalizeExplanationSynonyms(t *testing.T) {
	for _, key := range []string{"explanation", "solution", "reason", "why"} {
		raw := []byte(`[{"text":"Q","` + key + `":"because"}]`)
		qs, err := NormalizeSet(raw)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if qs[0].Explanation != "because" {
			t.Fatalf("%s synonym not honored", key)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	raw := []byte(`[{"text":"first"},{"text":"second"}]`)
	qs, err := NormalizeSet(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if qs[0].ID != "q1" || qs[1].ID != "q2" {
		t.Fatalf("positional IDs not synthesized: %q %q", qs[0].ID, qs[1].ID)
	}
	if qs[0].IsMCQ() {
		t.Fatalf("question without options must not be MCQ")
	}
}

func TestNormalizeWrappedObject(t *testing.T) {
	raw := []byte(`{"questions":[{"id":"w1","text":"Q","options":["a","b"],"answer":"a"}]}`)
	qs, err := NormalizeSet(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != "w1" {
		t.Fatalf("wrapped form not parsed: %+v", qs)
	}
}

func TestNormalizeBrokenJSON(t *testing.T) {
	if _, err := NormalizeSet([]byte(`{"nope": 1}`)); err == nil {
		t.Fatalf("expected error for JSON without a question array")
	}
	if _, err := NormalizeSet([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestLetterIndexRoundTrip(t *testing.T) {
	for i := 0; i < 6; i++ {
		if got := LetterIndex(IndexLetter(i)); got != i {
			t.Fatalf("round trip %d -> %q -> %d", i, IndexLetter(i), got)
		}
	}
	for _, bad := range []string{"", "g", "ab", "1"} {
		if LetterIndex(bad) != -1 {
			t.Fatalf("LetterIndex(%q) should be -1", bad)
		}
	}
}
