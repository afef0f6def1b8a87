package normalize

import (
	"encoding/json"
	"testing"
)

func TestItem_StructuredPassThrough(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 42,
		"title": "Backend Engineer",
		"company_name": "Acme",
		"tech_stack": "Go, SQL",
		"similarity": 0.87
	}`)

	rec := Item(raw)

	if rec.ID == nil || *rec.ID != 42 {
		t.Errorf("expected ID 42, got %v", rec.ID)
	}
	if rec.Title == nil || *rec.Title != "Backend Engineer" {
		t.Errorf("expected title Backend Engineer, got %v", rec.Title)
	}
	if rec.Company == nil || *rec.Company != "Acme" {
		t.Errorf("expected company Acme, got %v", rec.Company)
	}
	if rec.TechStack == nil || *rec.TechStack != "Go, SQL" {
		t.Errorf("expected tech stack Go, SQL, got %v", rec.TechStack)
	}
	if rec.Similarity == nil || *rec.Similarity != 0.87 {
		t.Errorf("expected similarity 0.87, got %v", rec.Similarity)
	}
}

func TestItem_EncodedString(t *testing.T) {
	raw := json.RawMessage(`"Job(id=42, title='Backend Engineer', company_name='Acme', tech_stack='Python, SQL', similarity=0.87)"`)

	rec := Item(raw)

	if rec.ID == nil || *rec.ID != 42 {
		t.Errorf("expected ID 42, got %v", rec.ID)
	}
	if rec.Title == nil || *rec.Title != "Backend Engineer" {
		t.Errorf("expected title Backend Engineer, got %v", rec.Title)
	}
	if rec.Company == nil || *rec.Company != "Acme" {
		t.Errorf("expected company Acme, got %v", rec.Company)
	}
	if rec.TechStack == nil || *rec.TechStack != "Python, SQL" {
		t.Errorf("expected tech stack Python, SQL, got %v", rec.TechStack)
	}
	if rec.Similarity == nil || *rec.Similarity != 0.87 {
		t.Errorf("expected similarity 0.87, got %v", rec.Similarity)
	}
}

func TestItem_EncodedMissingFields(t *testing.T) {
	raw := json.RawMessage(`"Job(id=7, title='X', similarity=0.5)"`)

	rec := Item(raw)

	if rec.ID == nil || *rec.ID != 7 {
		t.Errorf("expected ID 7, got %v", rec.ID)
	}
	if rec.Title == nil || *rec.Title != "X" {
		t.Errorf("expected title X, got %v", rec.Title)
	}
	if rec.Similarity == nil || *rec.Similarity != 0.5 {
		t.Errorf("expected similarity 0.5, got %v", rec.Similarity)
	}
	if rec.Company != nil {
		t.Errorf("expected absent company, got %q", *rec.Company)
	}
	if rec.TechStack != nil {
		t.Errorf("expected absent tech stack, got %q", *rec.TechStack)
	}
}

func TestItem_EncodedFieldOrderIndependent(t *testing.T) {
	permutations := []string{
		`"Job(id=9, title='SRE', company_name='Beta', tech_stack='Go', similarity=0.4)"`,
		`"Job(similarity=0.4, tech_stack='Go', company_name='Beta', title='SRE', id=9)"`,
		`"Job(company_name='Beta', id=9, similarity=0.4, title='SRE', tech_stack='Go')"`,
	}

	for _, p := range permutations {
		rec := Item(json.RawMessage(p))
		if rec.ID == nil || *rec.ID != 9 {
			t.Errorf("%s: expected ID 9, got %v", p, rec.ID)
		}
		if rec.Title == nil || *rec.Title != "SRE" {
			t.Errorf("%s: expected title SRE, got %v", p, rec.Title)
		}
		if rec.Company == nil || *rec.Company != "Beta" {
			t.Errorf("%s: expected company Beta, got %v", p, rec.Company)
		}
		if rec.TechStack == nil || *rec.TechStack != "Go" {
			t.Errorf("%s: expected tech stack Go, got %v", p, rec.TechStack)
		}
		if rec.Similarity == nil || *rec.Similarity != 0.4 {
			t.Errorf("%s: expected similarity 0.4, got %v", p, rec.Similarity)
		}
	}
}

func TestItem_EscapedQuoteInValue(t *testing.T) {
	raw := json.RawMessage(`"Job(id=3, title='O\\'Reilly Engineer')"`)

	rec := Item(raw)

	if rec.Title == nil || *rec.Title != "O'Reilly Engineer" {
		t.Errorf("expected title O'Reilly Engineer, got %v", rec.Title)
	}
}

func TestItem_GarbageYieldsInertRecord(t *testing.T) {
	for _, raw := range []string{`"complete nonsense"`, `""`, `123`, `[1,2]`, `not even json`} {
		rec := Item(json.RawMessage(raw))
		if !rec.Inert() {
			t.Errorf("%s: expected inert record, got %+v", raw, rec)
		}
	}
}

func TestBatch_PreservesOrder(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`"Job(id=1, title='first')"`),
		json.RawMessage(`{"id": 2, "title": "second"}`),
		json.RawMessage(`"Job(id=3, title='third')"`),
	}

	recs := Batch(raws)

	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []int64{1, 2, 3} {
		if recs[i].ID == nil || *recs[i].ID != want {
			t.Errorf("record %d: expected ID %d, got %v", i, want, recs[i].ID)
		}
	}
}
