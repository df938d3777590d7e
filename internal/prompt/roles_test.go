package prompt

import "testing"

func TestResolveKnownLabels(t *testing.T) {
	cases := map[string]string{
		InsuranceLabel: insuranceSystemPrompt,
		CareerLabel:    careerSystemPrompt,
	}
	for label, want := range cases {
		if got := Resolve(label); got != want {
			t.Errorf("Resolve(%q) returned the wrong prompt", label)
		}
	}
}

func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	for _, label := range []string{"", "XYZ", "insurance/life-planning expert", " " + InsuranceLabel} {
		if got := Resolve(label); got != Default().SystemPrompt {
			t.Errorf("Resolve(%q) did not fall back to default", label)
		}
	}
}

func TestDefaultIsFirstDeclared(t *testing.T) {
	all := All()
	if len(all) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(all))
	}
	if all[0] != Default() {
		t.Fatalf("default should be the first role")
	}
	labels := Labels()
	if labels[0] != InsuranceLabel || labels[1] != CareerLabel {
		t.Fatalf("unexpected label order: %v", labels)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].SystemPrompt = "mutated"
	if Default().SystemPrompt == "mutated" {
		t.Fatalf("registry mutated through All()")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("unexpected match")
	}
	r, ok := Lookup(CareerLabel)
	if !ok || r.Label != CareerLabel {
		t.Fatalf("lookup failed: %+v", r)
	}
}
