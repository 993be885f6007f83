package question

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Historical question banks come in several shapes: options as a plain array,
// options keyed by letter ({"a": "...", "b": "..."}), and a handful of
// synonyms for the answer and explanation fields. NormalizeSet maps any of
// them onto the canonical Question. Missing or unrecognized fields degrade to
// safe defaults (empty explanation, empty option list) instead of failing;
// only structurally broken JSON is an error.

var textKeys = []string{"text", "question", "question_text", "title"}
var optionKeys = []string{"options", "choices", "opts"}
var answerKeys = []string{"correct_label", "answer", "correct", "correct_answer", "ans"}
var explanationKeys = []string{"explanation", "solution", "reason", "why"}
var idKeys = []string{"id", "_id", "qid"}

// NormalizeSet parses a JSON array of question records in any supported shape.
func NormalizeSet(raw []byte) ([]Question, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// some bundles wrap the array in {"questions": [...]}
		var wrapped struct {
			Questions []map[string]json.RawMessage `json:"questions"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil || wrapped.Questions == nil {
			return nil, fmt.Errorf("parse question set: %w", err)
		}
		items = wrapped.Questions
	}
	out := make([]Question, 0, len(items))
	for i, item := range items {
		out = append(out, normalizeItem(i, item))
	}
	return out, nil
}

func normalizeItem(pos int, item map[string]json.RawMessage) Question {
	q := Question{
		ID:          firstString(item, idKeys),
		Text:        firstString(item, textKeys),
		Explanation: firstString(item, explanationKeys),
	}
	if q.ID == "" {
		q.ID = "q" + strconv.Itoa(pos+1)
	}
	for _, k := range optionKeys {
		if raw, ok := item[k]; ok {
			q.Options = parseOptions(raw)
			break
		}
	}
	q.CorrectLabel = parseAnswer(item, q.Options)
	if q.CorrectIndex() < 0 {
		// an answer that does not index into the options is format drift;
		// keep the question but drop the unusable label
		q.CorrectLabel = ""
	}
	return q
}

// parseOptions accepts an array of strings, an array of {"text": ...}
// objects, or an object keyed by option letter.
func parseOptions(raw json.RawMessage) []string {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, el := range arr {
			var s string
			if json.Unmarshal(el, &s) == nil {
				out = append(out, s)
				continue
			}
			var obj struct {
				Text  string `json:"text"`
				Label string `json:"label"`
			}
			if json.Unmarshal(el, &obj) == nil {
				if obj.Text != "" {
					out = append(out, obj.Text)
				} else {
					out = append(out, obj.Label)
				}
			}
		}
		return out
	}
	var keyed map[string]string
	if err := json.Unmarshal(raw, &keyed); err == nil {
		letters := make([]string, 0, len(keyed))
		for k := range keyed {
			if LetterIndex(k) >= 0 {
				letters = append(letters, strings.ToLower(k))
			}
		}
		sort.Strings(letters)
		out := make([]string, 0, len(letters))
		for _, l := range letters {
			v, ok := keyed[l]
			if !ok {
				v = keyed[strings.ToUpper(l)]
			}
			out = append(out, v)
		}
		return out
	}
	return nil
}

// parseAnswer resolves the correct-answer field to a lower-case letter. The
// field may hold a letter, a zero-based index, or the full option text.
func parseAnswer(item map[string]json.RawMessage, options []string) string {
	for _, k := range answerKeys {
		raw, ok := item[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			s = strings.TrimSpace(s)
			if i := LetterIndex(s); i >= 0 {
				return IndexLetter(i)
			}
			for i, opt := range options {
				if strings.EqualFold(s, opt) {
					return IndexLetter(i)
				}
			}
			continue
		}
		var n int
		if json.Unmarshal(raw, &n) == nil && n >= 0 && n < len(options) {
			return IndexLetter(n)
		}
	}
	return ""
}

func firstString(item map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		if raw, ok := item[k]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}
	return ""
}
