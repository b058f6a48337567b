package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jiraflow/internal/application"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// moveState tracks where an in-flight move stands. The local write happens
// before the remote call; the state decides whether a failure needs a
// rollback.
type moveState int

const (
	movePending moveState = iota
	moveConfirmed
	moveRolledBack
)

// MoveResult contains the result of moving a record.
type MoveResult struct {
	Key  string
	From domain.Stage
	To   domain.Stage

	// Final is the stage the record actually landed on. It can differ
	// from To when the remote tracker's own workflow carried the issue
	// somewhere else.
	Final domain.Stage

	Message string
}

// MoveCommand moves a record to another pipeline stage. For remote-mirrored
// records the local file is written optimistically, the matching remote
// transition is executed, and the local file is rolled back if the remote
// side refuses.
type MoveCommand struct {
	tracker ports.RemoteTracker
	store   ports.RecordStore
	worklog ports.WorkLog
	now     func() time.Time

	Key     string
	ToStage string
}

// NewMoveCommand creates a new MoveCommand. worklog may be nil.
func NewMoveCommand(tracker ports.RemoteTracker, store ports.RecordStore, worklog ports.WorkLog, key, toStage string) *MoveCommand {
	return &MoveCommand{
		tracker: tracker,
		store:   store,
		worklog: worklog,
		now:     time.Now,
		Key:     key,
		ToStage: toStage,
	}
}

// Validate checks the move request shape.
func (c *MoveCommand) Validate() error {
	if err := application.ValidateKey("key", c.Key); err != nil {
		return err
	}
	if _, err := application.ValidateStage("stage", c.ToStage); err != nil {
		return err
	}
	return nil
}

// Execute runs the move.
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	to, _ := application.ValidateStage("stage", c.ToStage)

	handle, err := c.store.FindExisting(c.Key, "")
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, fmt.Errorf("record %s: %w", c.Key, application.ErrNotFound)
	}
	record, err := c.store.Read(*handle)
	if err != nil {
		return nil, err
	}
	from := record.Stage

	if !domain.TransitionAllowed(record.Category, from, to, record.Origin) {
		return nil, &application.TransitionRejectedError{
			Key:    c.Key,
			From:   from,
			To:     to,
			Reason: "workflow does not allow this transition",
		}
	}

	if record.Origin == domain.OriginLocal {
		if err := c.store.UpdateStage(*handle, to); err != nil {
			return nil, err
		}
		c.logIfCompleted(record, *handle, to)
		return &MoveResult{
			Key: c.Key, From: from, To: to, Final: to,
			Message: fmt.Sprintf("Moved %s to %s", c.Key, to),
		}, nil
	}

	if c.tracker == nil {
		return nil, fmt.Errorf("move %s: %w", c.Key, application.ErrNotConfigured)
	}
	return c.executeRemote(ctx, record, *handle, from, to)
}

// executeRemote is the optimistic path for remote-mirrored records: local
// write first, then the remote transition, then reconcile against the
// remote's authoritative status. Every failure after the local write rolls
// it back.
func (c *MoveCommand) executeRemote(ctx context.Context, record domain.CanonicalRecord, handle ports.RecordHandle, from, to domain.Stage) (*MoveResult, error) {
	if err := c.store.UpdateStage(handle, to); err != nil {
		return nil, err
	}
	state := movePending

	rollback := func() {
		if state != movePending {
			return
		}
		if err := c.store.UpdateStage(handle, from); err == nil {
			state = moveRolledBack
		}
	}

	transitions, err := c.tracker.AvailableTransitions(ctx, c.Key)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("list transitions: %w", err)
	}

	transition := matchTransition(transitions, to)
	if transition == nil {
		rollback()
		return nil, &application.TransitionRejectedError{
			Key:    c.Key,
			From:   from,
			To:     to,
			Reason: "remote tracker offers no matching transition",
		}
	}

	if err := c.execute(ctx, transition.ID, to); err != nil {
		rollback()
		return nil, err
	}

	final := c.reconcile(ctx, handle, to)
	state = moveConfirmed

	record.Stage = final
	c.logIfCompleted(record, handle, final)

	msg := fmt.Sprintf("Moved %s to %s", c.Key, final)
	if final != to {
		msg = fmt.Sprintf("Moved %s; remote workflow landed it on %s", c.Key, final)
	}
	return &MoveResult{Key: c.Key, From: from, To: to, Final: final, Message: msg}, nil
}

// execute performs the remote transition. Transitions into a completed
// stage carry the resolution up front, since those require one on most
// workflows. When the remote still rejects for a missing resolution, one
// retry goes out with the resolution attached; a second rejection surfaces
// as ResolutionRequiredError.
func (c *MoveCommand) execute(ctx context.Context, transitionID string, to domain.Stage) error {
	err := c.tracker.ExecuteTransition(ctx, c.Key, transitionID, resolutionFields(to))
	if err == nil {
		return nil
	}
	if !missingResolution(err) {
		return fmt.Errorf("execute transition: %w", err)
	}

	retryErr := c.tracker.ExecuteTransition(ctx, c.Key, transitionID, doneResolution())
	if retryErr != nil {
		return &application.ResolutionRequiredError{
			Key:    c.Key,
			Detail: retryErr.Error(),
		}
	}
	return nil
}

// resolutionFields returns the extra transition fields for a target stage:
// the resolution marker for completed stages, nothing otherwise.
func resolutionFields(to domain.Stage) map[string]any {
	if !domain.IsDoneStage(to) {
		return nil
	}
	return doneResolution()
}

func doneResolution() map[string]any {
	return map[string]any{"resolution": map[string]any{"name": "Done"}}
}

// reconcile re-fetches the issue and aligns the local file with the status
// the remote actually reports. Jira post-functions can chain transitions,
// so the landing status is not necessarily the requested one. Fetch
// failures keep the optimistic stage; the next sync pass corrects it.
func (c *MoveCommand) reconcile(ctx context.Context, handle ports.RecordHandle, to domain.Stage) domain.Stage {
	issue, err := c.tracker.FetchIssue(ctx, c.Key)
	if err != nil || issue == nil {
		return to
	}
	actual := domain.MapStatus(issue.Fields.Status.Name)
	if actual != to {
		if err := c.store.UpdateStage(handle, actual); err != nil {
			return to
		}
	}
	return actual
}

func (c *MoveCommand) logIfCompleted(record domain.CanonicalRecord, handle ports.RecordHandle, stage domain.Stage) {
	if c.worklog == nil {
		return
	}
	if stage != domain.StageDone && stage != domain.StageClosed {
		return
	}
	// Best effort: a daily-note hiccup must not fail a finished move.
	_ = c.worklog.LogCompletion(record, handle, c.now())
}

// matchTransition picks the remote transition leading to the wanted stage.
// Three strategies, strongest first: the transition's target status maps to
// the stage, the target status or transition name equals the stage name,
// either of them contains it.
func matchTransition(transitions []ports.Transition, to domain.Stage) *ports.Transition {
	for i := range transitions {
		if domain.MapStatus(transitions[i].To) == to && transitions[i].To != "" {
			return &transitions[i]
		}
	}
	for i := range transitions {
		if strings.EqualFold(transitions[i].To, string(to)) ||
			strings.EqualFold(transitions[i].Name, string(to)) {
			return &transitions[i]
		}
	}
	lowered := strings.ToLower(string(to))
	for i := range transitions {
		if strings.Contains(strings.ToLower(transitions[i].Name), lowered) ||
			strings.Contains(strings.ToLower(transitions[i].To), lowered) {
			return &transitions[i]
		}
	}
	return nil
}

// missingResolution reports whether an error is the remote complaining
// about an absent resolution field.
func missingResolution(err error) bool {
	var hinter interface{ MissingResolution() bool }
	return errors.As(err, &hinter) && hinter.MissingResolution()
}
