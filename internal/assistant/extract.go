package assistant

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractText pulls the answer out of a generateContent response.
//
// The first candidate's content may be a single object or a list of them.
// For each element, text from its parts is collected first and then the
// element's own text field. Fragments are trimmed and joined with single
// spaces. Any shape mismatch yields a partial answer or NoResponse.
func ExtractText(data []byte) string {
	candidates := gjson.GetBytes(data, "candidates")
	if !candidates.IsArray() {
		return NoResponse
	}
	list := candidates.Array()
	if len(list) == 0 {
		return NoResponse
	}

	content := list[0].Get("content")

	var items []gjson.Result
	switch {
	case content.IsArray():
		items = content.Array()
	case content.IsObject():
		items = []gjson.Result{content}
	default:
		return NoResponse
	}

	var texts []string
	add := func(r gjson.Result) {
		if r.Type != gjson.String {
			return
		}
		if s := strings.TrimSpace(r.Str); s != "" {
			texts = append(texts, s)
		}
	}

	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		if parts := item.Get("parts"); parts.IsArray() {
			for _, p := range parts.Array() {
				if p.IsObject() {
					add(p.Get("text"))
				}
			}
		}
		add(item.Get("text"))
	}

	if len(texts) == 0 {
		return NoResponse
	}
	return strings.Join(texts, " ")
}
