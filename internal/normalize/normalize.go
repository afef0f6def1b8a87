package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/matchdeck/internal/model"
)

// The backend serializes recommendation items in two shapes: a structured JSON
// object with the canonical field names, or an opaque string resembling a
// constructor call with named arguments in arbitrary order and arbitrary
// subset, e.g.
//
//	Job(id=42, title='Backend Engineer', company_name='Acme', tech_stack='Go, SQL', similarity=0.87)
//
// Each field is extracted by its own pattern so a missing, malformed, or
// reordered field never affects the others.
var (
	idPattern         = regexp.MustCompile(`\bid=(\d+)`)
	titlePattern      = regexp.MustCompile(`title='((?:[^'\\]|\\.)*)'`)
	companyPattern    = regexp.MustCompile(`company_name='((?:[^'\\]|\\.)*)'`)
	techStackPattern  = regexp.MustCompile(`tech_stack='((?:[^'\\]|\\.)*)'`)
	similarityPattern = regexp.MustCompile(`similarity=(\d+(?:\.\d+)?)`)
)

// structuredItem mirrors the canonical wire names of a structured item.
type structuredItem struct {
	ID         *int64   `json:"id"`
	Title      *string  `json:"title"`
	Company    *string  `json:"company_name"`
	TechStack  *string  `json:"tech_stack"`
	Similarity *float64 `json:"similarity"`
}

// Item turns one raw recommendation item into a canonical Recommendation.
// It never fails: an unparseable item degrades to an inert record so a single
// bad item cannot sink the batch.
func Item(raw json.RawMessage) model.Recommendation {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return fromEncoded(encoded)
	}

	var st structuredItem
	if err := json.Unmarshal(raw, &st); err != nil {
		return model.Recommendation{}
	}
	return model.Recommendation{
		ID:         st.ID,
		Title:      st.Title,
		Company:    st.Company,
		TechStack:  st.TechStack,
		Similarity: st.Similarity,
	}
}

// Batch normalizes every item in server order.
func Batch(raws []json.RawMessage) []model.Recommendation {
	recs := make([]model.Recommendation, 0, len(raws))
	for _, raw := range raws {
		recs = append(recs, Item(raw))
	}
	return recs
}

// fromEncoded extracts each field independently from the encoded-string form.
// A field whose pattern does not match is simply left absent.
func fromEncoded(s string) model.Recommendation {
	var rec model.Recommendation

	if m := idPattern.FindStringSubmatch(s); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			rec.ID = &id
		}
	}
	if m := titlePattern.FindStringSubmatch(s); m != nil {
		v := unescape(m[1])
		rec.Title = &v
	}
	if m := companyPattern.FindStringSubmatch(s); m != nil {
		v := unescape(m[1])
		rec.Company = &v
	}
	if m := techStackPattern.FindStringSubmatch(s); m != nil {
		v := unescape(m[1])
		rec.TechStack = &v
	}
	if m := similarityPattern.FindStringSubmatch(s); m != nil {
		if sim, err := strconv.ParseFloat(m[1], 64); err == nil {
			rec.Similarity = &sim
		}
	}

	return rec
}

// unescape undoes backslash escaping inside a quoted value (\' and \\).
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	r := strings.NewReplacer(`\'`, `'`, `\\`, `\`)
	return r.Replace(s)
}
