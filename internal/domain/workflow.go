package domain

import "strings"

// TransitionRule maps each stage to the stages directly reachable from it.
// Stages without an entry are unmodeled and do not block movement.
type TransitionRule map[Stage][]Stage

// genericWorkflow is the pipeline for stories, tasks and other non-defect
// work: execution output goes through testing before validation.
var genericWorkflow = TransitionRule{
	StageFunnel:     {StageDefining},
	StageDefining:   {StageReady, StageFunnel},
	StageReady:      {StageTodo, StageDefining},
	StageTodo:       {StageExecution, StageReady},
	StageExecution:  {StageExecuted, StageTodo},
	StageExecuted:   {StageTesting},
	StageTesting:    {StageTestDone},
	StageTestDone:   {StageValidating},
	StageValidating: {StageResolved},
	StageResolved:   {StageDone},
	StageDone:       {StageClosed},
	StageClosed:     {},
}

// defectWorkflow routes execution output to validation before testing, and
// lets a failed validation bounce back to execution.
var defectWorkflow = TransitionRule{
	StageFunnel:     {StageDefining},
	StageDefining:   {StageReady, StageFunnel},
	StageReady:      {StageTodo, StageDefining},
	StageTodo:       {StageExecution, StageReady},
	StageExecution:  {StageValidating, StageTodo},
	StageExecuted:   {StageTesting},
	StageTesting:    {StageTestDone},
	StageTestDone:   {StageDone},
	StageValidating: {StageTestDone, StageExecution},
	StageResolved:   {StageDone},
	StageDone:       {StageClosed},
	StageClosed:     {},
}

// isDefectCategory reports whether an issue category follows the defect
// workflow. Category strings come from the remote tracker verbatim.
func isDefectCategory(category string) bool {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "bug", "defect":
		return true
	}
	return false
}

// TransitionAllowed decides whether moving a record from one stage to another
// is legal. This gate is advisory for remote-mirrored records: the remote
// tracker's own transition API has the final word, and this check exists to
// give fast offline feedback before a network round trip.
//
// No-op moves are rejected. Locally authored records move freely; the user
// is the sole authority over them.
func TransitionAllowed(category string, from, to Stage, origin Origin) bool {
	if from == to {
		return false
	}
	if origin == OriginLocal {
		return true
	}
	workflow := genericWorkflow
	if isDefectCategory(category) {
		workflow = defectWorkflow
	}
	allowed, ok := workflow[from]
	if !ok {
		return true
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
