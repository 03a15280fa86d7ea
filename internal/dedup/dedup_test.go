package dedup

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/similarity"
)

func newTestPass(t *testing.T, cfg Config) *Pass {
	t.Helper()
	detector, err := similarity.NewDetector(similarity.Config{})
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	pass, err := New(detector, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return pass
}

func quantumItem(id, body string) content.Item {
	return content.Item{
		ID:    id,
		Title: "Quantum computing startup raises seed round",
		Body:  body,
	}
}

func bakeryItem(id string) content.Item {
	return content.Item{
		ID:    id,
		Title: "Local bakery wins regional pastry award",
		Body:  "Judges praised the laminated dough and the hazelnut filling at the annual competition.",
	}
}

const (
	quantumBody  = "A Berlin-based team closed funding to build error-corrected qubits for chemistry simulations."
	quantumBody2 = "The Berlin team closed a funding round to build error-corrected qubits aimed at chemistry simulations."
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	detector, err := similarity.NewDetector(similarity.Config{})
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}

	if _, err := New(detector, Config{Threshold: 1.2}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for threshold outside [0,1]")
	}
	if _, err := New(detector, Config{Window: -1}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for negative window")
	}
	if _, err := New(nil, Config{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for nil detector")
	}
}

func TestRunEmptyInput(t *testing.T) {
	t.Parallel()

	pass := newTestPass(t, Config{})
	kept, rejected := pass.Run(nil)
	if kept != nil || rejected != nil {
		t.Fatalf("empty input should yield nothing, got %v / %v", kept, rejected)
	}
}

func TestRunExactIDShortCircuit(t *testing.T) {
	t.Parallel()

	pass := newTestPass(t, Config{})
	items := []content.Item{
		quantumItem("x1", quantumBody),
		{ID: "x1", Title: "Totally different headline", Body: "Totally different body about something else entirely."},
	}

	kept, rejected := pass.Run(items)
	if len(kept) != 1 {
		t.Fatalf("expected 1 kept item, got %d", len(kept))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejected))
	}
	if rejected[0].Method != MethodExactID {
		t.Fatalf("repeated identifier must short-circuit as exact_id, got %s", rejected[0].Method)
	}
	if rejected[0].Score != 1 {
		t.Fatalf("exact id rejection should score 1, got %v", rejected[0].Score)
	}
}

func TestRunKeepsFirstSeenAndPreservesOrder(t *testing.T) {
	t.Parallel()

	pass := newTestPass(t, Config{})
	items := []content.Item{
		bakeryItem("b1"),
		quantumItem("q1", quantumBody),
		quantumItem("q2", quantumBody2),
		{ID: "c1", Title: "City council approves new bike lanes", Body: "The plan adds protected lanes along the riverfront by next summer."},
	}

	kept, rejected := pass.Run(items)
	if len(kept) != 3 {
		t.Fatalf("expected 3 kept items, got %d (%v)", len(kept), rejected)
	}
	if kept[0].ID != "b1" || kept[1].ID != "q1" || kept[2].ID != "c1" {
		t.Fatalf("kept items out of input order: %v", []string{kept[0].ID, kept[1].ID, kept[2].ID})
	}

	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejected))
	}
	if rejected[0].Item.ID != "q2" || rejected[0].DuplicateOfID != "q1" {
		t.Fatalf("duplicate should point at the first-seen item: %+v", rejected[0])
	}
}

func TestRunIdempotence(t *testing.T) {
	t.Parallel()

	pass := newTestPass(t, Config{})
	items := []content.Item{
		bakeryItem("b1"),
		quantumItem("q1", quantumBody),
		quantumItem("q2", quantumBody2),
	}

	once, _ := pass.Run(items)
	twice, rejected := pass.Run(once)
	if len(twice) != len(once) {
		t.Fatalf("second pass dropped items: %d -> %d", len(once), len(twice))
	}
	if len(rejected) != 0 {
		t.Fatalf("second pass should reject nothing, got %v", rejected)
	}
}

func TestRunWindowBoundsLookBack(t *testing.T) {
	t.Parallel()

	items := []content.Item{
		quantumItem("q1", quantumBody),
		bakeryItem("b1"),
		quantumItem("q2", quantumBody2),
	}

	narrow := newTestPass(t, Config{Window: 1})
	kept, _ := narrow.Run(items)
	if len(kept) != 3 {
		t.Fatalf("window 1 should only compare against the most recent item, kept %d", len(kept))
	}

	wide := newTestPass(t, Config{Window: 2})
	kept, rejected := wide.Run(items)
	if len(kept) != 2 {
		t.Fatalf("window 2 should reach the duplicate, kept %d", len(kept))
	}
	if len(rejected) != 1 || rejected[0].DuplicateOfID != "q1" {
		t.Fatalf("expected q2 rejected as duplicate of q1, got %+v", rejected)
	}
}

func TestRunThresholdMonotonicity(t *testing.T) {
	t.Parallel()

	items := []content.Item{
		quantumItem("q1", quantumBody),
		quantumItem("q2", quantumBody2),
	}

	strict := newTestPass(t, Config{Threshold: 0.99})
	lax := newTestPass(t, Config{Threshold: 0.3})

	keptStrict, _ := strict.Run(items)
	keptLax, _ := lax.Run(items)
	if len(keptLax) > len(keptStrict) {
		t.Fatalf("raising the threshold can only keep more items: strict=%d lax=%d", len(keptStrict), len(keptLax))
	}
}
