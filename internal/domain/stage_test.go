package domain_test

import (
	"testing"

	"github.com/neomorfeo/allocq/internal/domain"
)

// wantTransition mirrors the pipeline rule independently of the Transitions
// table: to must be the immediate next pipeline stage, or REJECTED from a
// non-terminal stage.
func wantTransition(from, to domain.Stage) bool {
	if domain.IsTerminal(from) {
		return false
	}
	if to == domain.StageRejected {
		return true
	}
	fromIdx := domain.PipelineIndex(from)
	toIdx := domain.PipelineIndex(to)
	return fromIdx >= 0 && toIdx == fromIdx+1
}

func TestIsValidTransition_AllPairs(t *testing.T) {
	for _, from := range domain.Stages {
		for _, to := range domain.Stages {
			want := wantTransition(from, to)
			if got := domain.IsValidTransition(from, to); got != want {
				t.Errorf("IsValidTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsValidTransition_NoSkipping(t *testing.T) {
	if domain.IsValidTransition(domain.StagePendingReview, domain.StageApproved) {
		t.Error("PENDING_REVIEW -> APPROVED should be invalid (skips COMPLIANCE_CHECK)")
	}
	if domain.IsValidTransition(domain.StagePendingReview, domain.StageSettled) {
		t.Error("PENDING_REVIEW -> SETTLED should be invalid")
	}
}

func TestIsValidTransition_TerminalStagesHaveNoEdges(t *testing.T) {
	for _, from := range []domain.Stage{domain.StageSettled, domain.StageRejected} {
		for _, to := range domain.Stages {
			if domain.IsValidTransition(from, to) {
				t.Errorf("terminal stage %s should have no edge to %s", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[domain.Stage]bool{
		domain.StageSettled:  true,
		domain.StageRejected: true,
	}
	for _, s := range domain.Stages {
		if got := domain.IsTerminal(s); got != terminal[s] {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, terminal[s])
		}
	}
}

func TestPipelineIndex(t *testing.T) {
	want := map[domain.Stage]int{
		domain.StagePendingReview:   0,
		domain.StageComplianceCheck: 1,
		domain.StageApproved:        2,
		domain.StageAllocated:       3,
		domain.StageSettled:         4,
		domain.StageRejected:        -1,
	}
	for stage, idx := range want {
		if got := domain.PipelineIndex(stage); got != idx {
			t.Errorf("PipelineIndex(%s) = %d, want %d", stage, got, idx)
		}
	}
}

func TestParseStage(t *testing.T) {
	s, err := domain.ParseStage("COMPLIANCE_CHECK")
	if err != nil {
		t.Fatalf("ParseStage failed: %v", err)
	}
	if s != domain.StageComplianceCheck {
		t.Errorf("ParseStage = %q, want %q", s, domain.StageComplianceCheck)
	}

	if _, err := domain.ParseStage("SHIPPED"); err == nil {
		t.Error("ParseStage should reject unknown stages")
	}
}

func TestStageLabels(t *testing.T) {
	if got := domain.StagePendingReview.Label(); got != "Pending Review" {
		t.Errorf("Label() = %q, want %q", got, "Pending Review")
	}
	if got := domain.StageRejected.Label(); got != "Rejected" {
		t.Errorf("Label() = %q, want %q", got, "Rejected")
	}
}

func TestTransitions_EveryNonTerminalStageHasTwoEdges(t *testing.T) {
	counts := make(map[domain.Stage]int)
	for _, tr := range domain.Transitions {
		counts[tr.Src]++
	}
	for _, s := range domain.Stages {
		want := 2
		if domain.IsTerminal(s) {
			want = 0
		}
		if counts[s] != want {
			t.Errorf("stage %s has %d outbound edges, want %d", s, counts[s], want)
		}
	}
}
