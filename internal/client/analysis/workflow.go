// Package analysis runs one resume/job analysis at a time: local
// validation, an authorized upload to the analysis service, a synthetic
// progress estimate while the service works, and the final verdict.
//
// Every submission is an attempt tagged with its own ID. All state changes
// happen under one mutex and are applied only while their attempt is still
// the live one, so a Reset or a newer Submit makes any late tick or response
// from an older attempt a no-op.
package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/resumefit/internal/client/client"
	"github.com/dmitrijs2005/resumefit/internal/client/models"
	"github.com/dmitrijs2005/resumefit/internal/client/ui"
	"github.com/dmitrijs2005/resumefit/internal/logging"
)

type State string

const (
	Idle       State = "idle"
	Validating State = "validating"
	Submitting State = "submitting"
	Succeeded  State = "succeeded"
	Rejected   State = "rejected"
	Failed     State = "failed"
)

// Terminal reports whether s ends an attempt.
func (s State) Terminal() bool {
	return s == Succeeded || s == Rejected || s == Failed
}

// ErrNotAuthenticated fails a submission made without a session token.
var ErrNotAuthenticated = errors.New("not authenticated")

const defaultFailureMessage = "Failed to analyze resume"

// TokenSource supplies the bearer token for submissions.
type TokenSource interface {
	AccessToken() (string, bool)
}

// ProgressConfig shapes the synthetic progress estimate: Step points are
// added every Interval until Cap is reached.
type ProgressConfig struct {
	Interval time.Duration
	Step     int
	Cap      int
}

func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{Interval: 500 * time.Millisecond, Step: 5, Cap: 95}
}

// Snapshot is a copy of the workflow state.
type Snapshot struct {
	AttemptID string
	State     State
	Progress  int
	// Err is the rejection or failure cause; Message is its user-facing text.
	Err     error
	Message string
	Result  *models.AnalysisResult
	Input   Input
}

type attempt struct {
	id       string
	state    State
	progress int
	err      error
	message  string
	result   *models.AnalysisResult

	stopTicker func()
	cancel     context.CancelFunc
}

type Workflow struct {
	analyzer client.Analyzer
	tokens   TokenSource
	notifier ui.Notifier
	log      logging.Logger
	progress ProgressConfig
	newID    func() string

	mu      sync.Mutex
	input   Input
	current attempt

	// pubMu orders deliveries so subscribers never see an older snapshot
	// after a newer one.
	pubMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewWorkflow(analyzer client.Analyzer, tokens TokenSource, notifier ui.Notifier, log logging.Logger, progress ProgressConfig) *Workflow {
	if progress.Interval <= 0 {
		progress.Interval = DefaultProgressConfig().Interval
	}
	return &Workflow{
		analyzer: analyzer,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With("component", "analysis"),
		progress: progress,
		newID:    uuid.NewString,
		current:  attempt{state: Idle},
		subs:     make(map[int]func(Snapshot)),
	}
}

// SetInput replaces the edited input without starting an attempt.
func (w *Workflow) SetInput(in Input) {
	w.mu.Lock()
	w.input = in
	w.mu.Unlock()
	w.publish()
}

func (w *Workflow) Input() Input {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// Submit starts a new attempt for in, superseding any previous one, and
// blocks until the attempt ends or is superseded. The returned snapshot is
// the workflow state at that moment.
func (w *Workflow) Submit(ctx context.Context, in Input) Snapshot {
	w.mu.Lock()
	w.stopLocked()
	id := w.newID()
	w.input = in
	w.current = attempt{id: id, state: Validating}
	w.mu.Unlock()
	w.publish()

	if err := Validate(in); err != nil {
		w.mu.Lock()
		if w.current.id == id {
			w.current.state = Rejected
			w.current.err = err
			w.current.message = err.Error()
		}
		snap := w.snapshotLocked()
		w.mu.Unlock()

		w.log.Info(ctx, "analysis input rejected", "attempt_id", id, "reason", err)
		w.publish()
		return snap
	}

	token, authenticated := w.tokens.AccessToken()
	reqCtx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	if w.current.id != id {
		w.mu.Unlock()
		cancel()
		return w.Snapshot()
	}
	w.current.state = Submitting
	w.current.progress = 0
	w.current.cancel = cancel
	w.current.stopTicker = w.startTicker(id)
	w.mu.Unlock()
	w.publish()

	w.log.Info(ctx, "analysis submitted", "attempt_id", id, "resume_bytes", in.Resume.Size())

	var (
		res *models.AnalysisResult
		err error
	)
	if authenticated {
		res, err = w.analyzer.SubmitApplication(reqCtx, token, in.application())
	} else {
		err = ErrNotAuthenticated
	}

	w.mu.Lock()
	if w.current.id != id {
		w.mu.Unlock()
		cancel()
		w.log.Debug(ctx, "discarding response of superseded attempt", "attempt_id", id)
		return w.Snapshot()
	}
	w.stopLocked()
	w.current.progress = 100
	if err != nil {
		w.current.state = Failed
		w.current.err = err
		w.current.message = failureMessage(err)
		w.current.result = nil
	} else {
		w.current.state = Succeeded
		w.current.result = res
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.publish()

	if err != nil {
		w.log.Warn(ctx, "analysis failed", "attempt_id", id, "error", err)
		w.notifier.Notify(ctx, ui.Notification{Kind: ui.KindError, Title: "Analysis failed", Message: snap.Message})
	} else {
		w.log.Info(ctx, "analysis succeeded", "attempt_id", id, "fit_score", res.FitScore)
	}
	return snap
}

// Reset abandons the current attempt, whatever its state, and clears the
// input. A response still in flight for the abandoned attempt is ignored.
func (w *Workflow) Reset() {
	w.mu.Lock()
	w.stopLocked()
	w.input = Input{}
	w.current = attempt{state: Idle}
	w.mu.Unlock()
	w.publish()
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Subscribe registers fn to receive a Snapshot after every change. fn runs
// on the goroutine that made the change and must not call Submit, Reset or
// SetInput.
func (w *Workflow) Subscribe(fn func(Snapshot)) (cancel func()) {
	w.pubMu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	w.pubMu.Unlock()

	return func() {
		w.pubMu.Lock()
		delete(w.subs, id)
		w.pubMu.Unlock()
	}
}

// startTicker runs the progress estimate for attempt id until the returned
// stop function is called, the attempt stops being live, or Cap is reached.
func (w *Workflow) startTicker(id string) (stop func()) {
	done := make(chan struct{})
	ticker := time.NewTicker(w.progress.Interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !w.tick(id) {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (w *Workflow) tick(id string) bool {
	w.mu.Lock()
	if w.current.id != id || w.current.state != Submitting || w.current.progress >= w.progress.Cap {
		w.mu.Unlock()
		return false
	}
	w.current.progress = min(w.current.progress+w.progress.Step, w.progress.Cap)
	w.mu.Unlock()

	w.publish()
	return true
}

// stopLocked halts the ticker and the request of the current attempt.
func (w *Workflow) stopLocked() {
	if w.current.stopTicker != nil {
		w.current.stopTicker()
		w.current.stopTicker = nil
	}
	if w.current.cancel != nil {
		w.current.cancel()
		w.current.cancel = nil
	}
}

func (w *Workflow) snapshotLocked() Snapshot {
	return Snapshot{
		AttemptID: w.current.id,
		State:     w.current.state,
		Progress:  w.current.progress,
		Err:       w.current.err,
		Message:   w.current.message,
		Result:    w.current.result,
		Input:     w.input,
	}
}

func (w *Workflow) publish() {
	w.pubMu.Lock()
	defer w.pubMu.Unlock()

	if len(w.subs) == 0 {
		return
	}
	snap := w.Snapshot()
	for _, fn := range w.subs {
		fn(snap)
	}
}

// failureMessage prefers the server's own reason over the generic text.
func failureMessage(err error) string {
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	return defaultFailureMessage
}

// Narrative describes what the service is presumably doing at progress p.
func Narrative(p int) string {
	switch {
	case p < 30:
		return "Extracting resume"
	case p < 60:
		return "Comparing with job requirements"
	case p < 90:
		return "Generating insights"
	default:
		return "Finishing"
	}
}
