package commands

import (
	"context"
	"fmt"
	"time"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// fakeTracker is an in-memory ports.RemoteTracker with overridable
// behavior per method.
type fakeTracker struct {
	connectErr  error
	board       *ports.Board
	boardErr    error
	sprint      *ports.Sprint
	sprintIss   []ports.RawIssue
	backlogIss  []ports.RawIssue
	filterIss   []ports.RawIssue
	filterErr   error
	filterCalls int

	transitions    []ports.Transition
	transitionsErr error
	executeErr     []error
	executeCalls   []map[string]any
	fetched        *ports.RawIssue
}

func (f *fakeTracker) TestConnection(ctx context.Context) error { return f.connectErr }

func (f *fakeTracker) FetchIssuesByFilter(ctx context.Context, filter string) ([]ports.RawIssue, error) {
	f.filterCalls++
	return f.filterIss, f.filterErr
}

func (f *fakeTracker) FetchBoardForProject(ctx context.Context, projectKey string) (*ports.Board, error) {
	return f.board, f.boardErr
}

func (f *fakeTracker) FetchActiveSprint(ctx context.Context, boardID int) (*ports.Sprint, error) {
	return f.sprint, nil
}

func (f *fakeTracker) FetchSprintIssues(ctx context.Context, sprintID int) ([]ports.RawIssue, error) {
	return f.sprintIss, nil
}

func (f *fakeTracker) FetchBacklogIssues(ctx context.Context, boardID int, projectKey string) ([]ports.RawIssue, error) {
	return f.backlogIss, nil
}

func (f *fakeTracker) AvailableTransitions(ctx context.Context, issueKey string) ([]ports.Transition, error) {
	return f.transitions, f.transitionsErr
}

func (f *fakeTracker) ExecuteTransition(ctx context.Context, issueKey, transitionID string, extraFields map[string]any) error {
	f.executeCalls = append(f.executeCalls, extraFields)
	if len(f.executeErr) == 0 {
		return nil
	}
	err := f.executeErr[0]
	f.executeErr = f.executeErr[1:]
	return err
}

func (f *fakeTracker) UpdateFields(ctx context.Context, issueKey string, fields map[string]any) error {
	return nil
}

func (f *fakeTracker) FetchIssue(ctx context.Context, issueKey string) (*ports.RawIssue, error) {
	return f.fetched, nil
}

// resolutionErr mimics the adapter error for a transition rejected over a
// missing resolution field.
type resolutionErr struct{}

func (resolutionErr) Error() string           { return "resolution is required" }
func (resolutionErr) MissingResolution() bool { return true }

// fakeStore is an in-memory ports.RecordStore keyed by record key.
type fakeStore struct {
	records    map[string]domain.CanonicalRecord
	bodies     map[string]string
	upsertErr  map[string]error
	stageLog   []domain.Stage
	updateErrs int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]domain.CanonicalRecord),
		bodies:  make(map[string]string),
	}
}

func (s *fakeStore) EnsureFolders() error { return nil }

func (s *fakeStore) FindExisting(key, summary string) (*ports.RecordHandle, error) {
	if _, ok := s.records[key]; !ok {
		return nil, nil
	}
	return &ports.RecordHandle{Path: "/vault/" + key + ".md"}, nil
}

func (s *fakeStore) Upsert(record domain.CanonicalRecord, body string) (bool, error) {
	if err := s.upsertErr[record.Key]; err != nil {
		return false, err
	}
	_, existed := s.records[record.Key]
	s.records[record.Key] = record
	if !existed {
		s.bodies[record.Key] = body
	}
	return !existed, nil
}

func (s *fakeStore) Read(handle ports.RecordHandle) (domain.CanonicalRecord, error) {
	record, ok := s.records[keyOf(handle)]
	if !ok {
		return domain.CanonicalRecord{}, fmt.Errorf("no record at %s", handle.Path)
	}
	return record, nil
}

func (s *fakeStore) UpdateStage(handle ports.RecordHandle, stage domain.Stage) error {
	if s.updateErrs > 0 {
		s.updateErrs--
		return fmt.Errorf("disk full")
	}
	record, ok := s.records[keyOf(handle)]
	if !ok {
		return fmt.Errorf("no record at %s", handle.Path)
	}
	record.Stage = stage
	s.records[keyOf(handle)] = record
	s.stageLog = append(s.stageLog, stage)
	return nil
}

func (s *fakeStore) Archive(handle ports.RecordHandle) error {
	record := s.records[keyOf(handle)]
	record.Archived = true
	s.records[keyOf(handle)] = record
	return nil
}

func (s *fakeStore) Unarchive(handle ports.RecordHandle) error {
	record := s.records[keyOf(handle)]
	record.Archived = false
	s.records[keyOf(handle)] = record
	return nil
}

func (s *fakeStore) Delete(handle ports.RecordHandle) error {
	delete(s.records, keyOf(handle))
	return nil
}

func (s *fakeStore) List(includeArchived bool) ([]ports.StoredRecord, error) {
	var out []ports.StoredRecord
	for key, record := range s.records {
		if record.Archived && !includeArchived {
			continue
		}
		out = append(out, ports.StoredRecord{
			Handle: ports.RecordHandle{Path: "/vault/" + key + ".md"},
			Record: record,
		})
	}
	return out, nil
}

func keyOf(handle ports.RecordHandle) string {
	name := handle.Path[len("/vault/"):]
	return name[:len(name)-len(".md")]
}

// fakeWorkLog records completions.
type fakeWorkLog struct {
	logged []string
}

func (w *fakeWorkLog) LogCompletion(record domain.CanonicalRecord, handle ports.RecordHandle, when time.Time) error {
	w.logged = append(w.logged, record.Key)
	return nil
}

func rawIssue(key, status, issueType string) ports.RawIssue {
	return ports.RawIssue{
		Key: key,
		Fields: ports.IssueFields{
			Summary:   "summary of " + key,
			Status:    ports.NamedField{Name: status},
			IssueType: ports.NamedField{Name: issueType},
		},
	}
}
