package domain

import "fmt"

// Stage represents an order's position in the approval/settlement pipeline.
type Stage string

const (
	StagePendingReview   Stage = "PENDING_REVIEW"
	StageComplianceCheck Stage = "COMPLIANCE_CHECK"
	StageApproved        Stage = "APPROVED"
	StageAllocated       Stage = "ALLOCATED"
	StageSettled         Stage = "SETTLED"
	StageRejected        Stage = "REJECTED"
)

// Pipeline is the ordered forward sequence of stages. REJECTED sits outside
// the pipeline and is reachable from every non-terminal stage instead.
var Pipeline = []Stage{
	StagePendingReview,
	StageComplianceCheck,
	StageApproved,
	StageAllocated,
	StageSettled,
}

// Stages lists every stage, pipeline order first, REJECTED last.
var Stages = append(append([]Stage{}, Pipeline...), StageRejected)

// Transition defines a valid stage change from Src to Dst.
type Transition struct {
	Src Stage
	Dst Stage
}

// Transitions defines all valid stage changes in the order pipeline: each
// non-terminal stage may advance exactly one step forward or go to REJECTED.
// SETTLED and REJECTED permit no outbound edges. This is domain knowledge
// consumed by the FSM adapter.
var Transitions = buildTransitions()

func buildTransitions() []Transition {
	var out []Transition
	for i, s := range Pipeline {
		if i+1 < len(Pipeline) {
			out = append(out, Transition{Src: s, Dst: Pipeline[i+1]})
			out = append(out, Transition{Src: s, Dst: StageRejected})
		}
	}
	return out
}

// IsValidTransition reports whether moving from one stage to another is a
// legal edge. Skipping pipeline steps and leaving a terminal stage are not.
func IsValidTransition(from, to Stage) bool {
	for _, t := range Transitions {
		if t.Src == from && t.Dst == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a stage permits no further transitions.
func IsTerminal(s Stage) bool {
	return s == StageSettled || s == StageRejected
}

// PipelineIndex returns the 0-based position of a stage in the forward
// pipeline, or -1 for REJECTED and unknown stages. Display-only; transition
// legality is decided by the transition table, never by index comparison.
func PipelineIndex(s Stage) int {
	for i, p := range Pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// Label returns the human-readable form of a stage.
func (s Stage) Label() string {
	switch s {
	case StagePendingReview:
		return "Pending Review"
	case StageComplianceCheck:
		return "Compliance Check"
	case StageApproved:
		return "Approved"
	case StageAllocated:
		return "Allocated"
	case StageSettled:
		return "Settled"
	case StageRejected:
		return "Rejected"
	}
	return string(s)
}

// ParseStage converts a string into a Stage, rejecting values outside the
// closed enumeration.
func ParseStage(v string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", v)
}
