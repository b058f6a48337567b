package domain

import "strings"

// Stage identifies one of the twelve fixed kanban pipeline columns.
// The set is not user-configurable; records always occupy exactly one stage.
type Stage string

const (
	StageFunnel     Stage = "FUNNEL"
	StageDefining   Stage = "DEFINING"
	StageReady      Stage = "READY"
	StageTodo       Stage = "TO DO"
	StageExecution  Stage = "EXECUTION"
	StageExecuted   Stage = "EXECUTED"
	StageTesting    Stage = "TESTING & REVIEW"
	StageTestDone   Stage = "TEST DONE"
	StageValidating Stage = "VALIDATING"
	StageResolved   Stage = "RESOLVED"
	StageDone       Stage = "DONE"
	StageClosed     Stage = "CLOSED"
)

// Phase groups stages for presentation (board section headers).
type Phase string

const (
	PhaseBacklog  Phase = "Backlog"
	PhaseTodo     Phase = "Todo"
	PhaseActive   Phase = "Active"
	PhaseTesting  Phase = "Testing"
	PhaseValidate Phase = "Validate"
	PhaseDone     Phase = "Done"
)

// StageDef describes a pipeline stage for presentation.
type StageDef struct {
	ID    Stage
	Label string
	Phase Phase
}

// stageDefs is the fixed, ordered pipeline. Board columns render in this order.
var stageDefs = []StageDef{
	{StageFunnel, "FUNNEL", PhaseBacklog},
	{StageDefining, "DEFINING", PhaseBacklog},
	{StageReady, "READY", PhaseBacklog},
	{StageTodo, "TO DO", PhaseTodo},
	{StageExecution, "EXECUTION", PhaseActive},
	{StageExecuted, "EXECUTED", PhaseActive},
	{StageTesting, "TESTING & REVIEW", PhaseTesting},
	{StageTestDone, "TEST DONE", PhaseTesting},
	{StageValidating, "VALIDATING", PhaseValidate},
	{StageResolved, "RESOLVED", PhaseDone},
	{StageDone, "DONE", PhaseDone},
	{StageClosed, "CLOSED", PhaseDone},
}

// Stages returns the ordered pipeline definitions.
func Stages() []StageDef {
	defs := make([]StageDef, len(stageDefs))
	copy(defs, stageDefs)
	return defs
}

// KnownStage reports whether s is one of the twelve pipeline stages.
func KnownStage(s Stage) bool {
	for _, def := range stageDefs {
		if def.ID == s {
			return true
		}
	}
	return false
}

// ParseStage resolves user input (any case) to a pipeline stage.
func ParseStage(s string) (Stage, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, def := range stageDefs {
		if string(def.ID) == upper {
			return def.ID, true
		}
	}
	return "", false
}

// doneStages are the three completed stages. Records here are never overdue
// and transitions into them require a resolution on the remote side.
var doneStages = map[Stage]bool{
	StageResolved: true,
	StageDone:     true,
	StageClosed:   true,
}

// IsDoneStage reports whether s is one of the completed stages.
func IsDoneStage(s Stage) bool {
	return doneStages[s]
}

// exactStatusMap covers the canonical English labels and their bilingual
// variants as the remote tracker emits them.
var exactStatusMap = map[string]Stage{
	"funnel":                        StageFunnel,
	"funnel 漏斗":                     StageFunnel,
	"漏斗":                            StageFunnel,
	"defining":                      StageDefining,
	"defining 定义":                   StageDefining,
	"定义":                            StageDefining,
	"defining 细化":                   StageDefining,
	"细化":                            StageDefining,
	"ready":                         StageReady,
	"ready 就绪":                      StageReady,
	"就绪":                            StageReady,
	"to do":                         StageTodo,
	"to do 待办":                      StageTodo,
	"待办":                            StageTodo,
	"open":                          StageTodo,
	"open 打开":                       StageTodo,
	"打开":                            StageTodo,
	"building":                      StageExecution,
	"building 构建中":                  StageExecution,
	"构建中":                           StageExecution,
	"in progress":                   StageExecution,
	"in progress 处理中":               StageExecution,
	"处理中":                           StageExecution,
	"build done":                    StageExecuted,
	"build done 构建完成":               StageExecuted,
	"构建完成":                          StageExecuted,
	"in review":                     StageTesting,
	"in review 审核中":                 StageTesting,
	"审核中":                           StageTesting,
	"testing":                       StageTesting,
	"testing 测试中":                   StageTesting,
	"测试中":                           StageTesting,
	"integrating & testing":         StageTesting,
	"integrating & testing 集成测试中":   StageTesting,
	"集成测试中":                         StageTesting,
	"test done":                     StageTestDone,
	"test done 测试完成":                StageTestDone,
	"测试完成":                          StageTestDone,
	"validating":                    StageValidating,
	"validating 验证":                 StageValidating,
	"validating 验证中":                StageValidating,
	"验证":                            StageValidating,
	"验证中":                           StageValidating,
	"resolved":                      StageResolved,
	"resolved 已解决":                  StageResolved,
	"已解决":                           StageResolved,
	"done":                          StageDone,
	"done 完成":                       StageDone,
	"完成":                            StageDone,
	"closed":                        StageClosed,
	"closed 关闭":                     StageClosed,
	"关闭":                            StageClosed,
}

// fuzzyKeywords is scanned in order after an exact-match miss. Keywords whose
// text is a substring of another keyword ("test done" vs "testing") are
// resolved by the exact table first, so the pairs here stay mutually safe.
var fuzzyKeywords = []struct {
	keyword string
	stage   Stage
}{
	{"漏斗", StageFunnel}, {"funnel", StageFunnel},
	{"定义", StageDefining}, {"细化", StageDefining}, {"defining", StageDefining},
	{"就绪", StageReady}, {"ready", StageReady},
	{"待办", StageTodo}, {"to do", StageTodo}, {"open", StageTodo},
	{"构建中", StageExecution}, {"处理中", StageExecution}, {"开始任务", StageExecution},
	{"building", StageExecution}, {"in progress", StageExecution},
	{"构建完成", StageExecuted}, {"build done", StageExecuted},
	{"测试完成", StageTestDone}, {"test done", StageTestDone},
	{"审核中", StageTesting}, {"测试中", StageTesting}, {"集成测试", StageTesting},
	{"in review", StageTesting}, {"testing", StageTesting}, {"integrating", StageTesting},
	{"验证", StageValidating}, {"validating", StageValidating},
	{"已解决", StageResolved}, {"resolved", StageResolved},
	{"完成", StageDone}, {"done", StageDone},
	{"关闭", StageClosed}, {"closed", StageClosed},
}

// MapStatus maps a free-text remote status label onto a pipeline stage.
// Unknown labels land in TO DO so they surface as actionable backlog items
// instead of disappearing from the board. Never fails.
func MapStatus(raw string) Stage {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if stage, ok := exactStatusMap[lower]; ok {
		return stage
	}
	for _, fk := range fuzzyKeywords {
		if strings.Contains(lower, fk.keyword) {
			return fk.stage
		}
	}
	return StageTodo
}
