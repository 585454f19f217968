package label

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func cellCycleRules(t *testing.T) RuleSet {
	t.Helper()
	rs, err := NewRuleSet([]RuleSpec{
		{Label: "Cell cycle / mitosis", Patterns: []string{"^CDK", "^CCN"}},
	})
	if err != nil {
		t.Fatalf("NewRuleSet() error = %v", err)
	}
	return rs
}

func TestClassify_ScoresHubsAndGenes(t *testing.T) {
	got := Classify(cellCycleRules(t), []string{"CDK1", "TP53"}, []string{"CDK1", "CDK2", "BRCA1"})

	want := Result{
		Label:    "Cell cycle / mitosis",
		Score:    5,
		HubHits:  []string{"CDK1"},
		GeneHits: []string{"CDK1", "CDK2"},
		Patterns: []string{"^CDK", "^CCN"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_CaseInsensitiveAndDeduplicated(t *testing.T) {
	got := Classify(cellCycleRules(t), []string{" cdk1 ", "CDK1"}, []string{"ccnb1", "CCNB1", "Cdk2", ""})

	if got.Score != 3*1+1*2 {
		t.Errorf("Score = %d, want 5", got.Score)
	}
	if diff := cmp.Diff([]string{"CCNB1", "CDK2"}, got.GeneHits); diff != "" {
		t.Errorf("GeneHits mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_AnchoredPatterns(t *testing.T) {
	// XCDK1 contains CDK but not at the start.
	got := Classify(cellCycleRules(t), []string{"XCDK1"}, []string{"XCDK1", "ACCN"})
	if got.Label != Uncategorized || got.Score != 0 {
		t.Errorf("Classify() = %+v, want Uncategorized", got)
	}
}

func TestClassify_NoMatchIsSentinel(t *testing.T) {
	got := Classify(DefaultRules(), []string{"ZZZ1"}, []string{"ZZZ1", "YYY2"})

	want := uncategorized()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
	if got.Label != Uncategorized || got.Score != 0 {
		t.Errorf("got %q/%d, want %q/0", got.Label, got.Score, Uncategorized)
	}
}

func TestClassify_EmptyRuleSet(t *testing.T) {
	got := Classify(RuleSet{}, []string{"CDK1"}, []string{"CDK1"})
	if got.Label != Uncategorized {
		t.Errorf("Label = %q, want %q", got.Label, Uncategorized)
	}
}

func TestClassify_TieGoesToFirstRule(t *testing.T) {
	rs := MustRuleSet([]RuleSpec{
		{Label: "first", Patterns: []string{"^AAA"}},
		{Label: "second", Patterns: []string{"^BBB"}},
	})
	hubs := []string{"AAA1", "BBB1"}
	members := []string{"AAA1", "BBB1"}

	for i := 0; i < 50; i++ {
		if got := Classify(rs, hubs, members); got.Label != "first" {
			t.Fatalf("run %d: Label = %q, want first", i, got.Label)
		}
	}
}

func TestClassify_HigherLaterRuleWins(t *testing.T) {
	rs := MustRuleSet([]RuleSpec{
		{Label: "genes only", Patterns: []string{"^AAA"}},
		{Label: "hub", Patterns: []string{"^BBB"}},
	})
	// genes only: 2 gene hits = 2; hub: 1 hub + 1 gene = 4.
	got := Classify(rs, []string{"BBB1"}, []string{"AAA1", "AAA2", "BBB1"})
	if got.Label != "hub" || got.Score != 4 {
		t.Errorf("got %q/%d, want hub/4", got.Label, got.Score)
	}
}

func TestClassify_HubMatchesAddThreeEach(t *testing.T) {
	rs := MustRuleSet([]RuleSpec{{Label: "kinases", Patterns: []string{"^MAPK"}}})
	members := []string{"MAPK1"}

	base := Classify(rs, []string{"MAPK1"}, members)
	more := Classify(rs, []string{"MAPK1", "MAPK3", "MAPK8"}, members)

	if got := more.Score - base.Score; got != 3*2 {
		t.Errorf("adding 2 hub matches changed score by %d, want 6", got)
	}
	if more.Score < base.Score {
		t.Error("score decreased when hub matches grew")
	}
}

func TestClassify_CapsHits(t *testing.T) {
	rs := MustRuleSet([]RuleSpec{{Label: "ribosome", Patterns: []string{"^RPL"}}})

	var hubs, genes []string
	for i := 0; i < 40; i++ {
		hubs = append(hubs, "RPL"+string(rune('A'+i%26))+string(rune('A'+i/26)))
	}
	for i := 0; i < 100; i++ {
		genes = append(genes, "RPL"+string(rune('A'+i%26))+string(rune('A'+i/26)))
	}

	got := Classify(rs, hubs, genes)
	if len(got.HubHits) != MaxHubHits {
		t.Errorf("len(HubHits) = %d, want %d", len(got.HubHits), MaxHubHits)
	}
	if len(got.GeneHits) != MaxGeneHits {
		t.Errorf("len(GeneHits) = %d, want %d", len(got.GeneHits), MaxGeneHits)
	}
	// The score counts every match, not just the capped evidence.
	if got.Score != 3*40+100 {
		t.Errorf("Score = %d, want %d", got.Score, 3*40+100)
	}
}

func TestClassify_DefaultTable(t *testing.T) {
	tests := []struct {
		name    string
		hubs    []string
		members []string
		want    string
	}{
		{"dna repair", []string{"BRCA1", "RAD51"}, []string{"BRCA1", "RAD51", "ATM"}, "DNA damage / repair"},
		{"splicing", []string{"HNRNPA1"}, []string{"HNRNPA1", "SRSF1", "U2AF2"}, "RNA processing / splicing"},
		{"signaling", []string{"MAPK1", "AKT1"}, []string{"MAPK1", "AKT1", "STAT3"}, "Signaling (MAPK/PI3K/AKT)"},
		{"ribosome", []string{"RPL5"}, []string{"RPL5", "RPS6", "EIF4E"}, "Translation / ribosome"},
	}

	rules := DefaultRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(rules, tt.hubs, tt.members); got.Label != tt.want {
				t.Errorf("Label = %q, want %q", got.Label, tt.want)
			}
		})
	}
}
