package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumefit/internal/client/analysis"
	"github.com/dmitrijs2005/resumefit/internal/client/ui"
)

var (
	errSessionLoading = errors.New("session is still loading")
	errSignInRequired = errors.New("sign in required")
	errCancelled      = errors.New("analysis cancelled")
)

const barWidth = 20

// requireSession guards dashboard commands: they wait for the session to
// settle and send signed-out users to the sign-in screen.
func (a *App) requireSession(ctx context.Context) error {
	if a.session.Loading() {
		a.println("Session is still loading, try again in a moment")
		return errSessionLoading
	}
	if !a.session.IsAuthenticated() {
		a.println("Please log in first")
		a.Navigate(ctx, ui.RouteSignIn)
		return errSignInRequired
	}
	return nil
}

// Analyze collects a resume and the job details, submits them and prints
// the verdict. Progress narration is printed while the service works.
func (a *App) Analyze(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	in, err := a.promptInput()
	if err != nil {
		a.println("Error:", err)
		return err
	}

	stop := a.workflow.Subscribe(a.progressPrinter())
	snap := a.workflow.Submit(ctx, in)
	stop()

	a.renderAnalysis(snap)

	switch snap.State {
	case analysis.Succeeded:
		return nil
	case analysis.Rejected, analysis.Failed:
		return snap.Err
	default:
		return errCancelled
	}
}

func (a *App) promptInput() (analysis.Input, error) {
	var in analysis.Input

	path, err := getSimpleText(a.reader, "Resume PDF path", a.out)
	if err != nil {
		return in, err
	}
	if path != "" {
		if in.Resume, err = analysis.LoadResume(path); err != nil {
			return in, err
		}
	}

	if in.JobTitle, err = getSimpleText(a.reader, "Job title (optional with a job URL)", a.out); err != nil {
		return in, err
	}
	if in.JobDescription, err = getMultiline(a.reader, "Job description (optional with a job URL)", a.out); err != nil {
		return in, err
	}
	if in.JobURL, err = getSimpleText(a.reader, "Job posting URL (optional)", a.out); err != nil {
		return in, err
	}
	return in, nil
}

// progressPrinter narrates a running attempt, one line per stage.
// Subscribers are called one at a time, so the closure needs no lock.
func (a *App) progressPrinter() func(analysis.Snapshot) {
	last := ""
	return func(s analysis.Snapshot) {
		if s.State != analysis.Submitting {
			return
		}
		stage := analysis.Narrative(s.Progress)
		if stage == last {
			return
		}
		last = stage
		a.println(fmt.Sprintf("  [%3d%%] %s...", s.Progress, stage))
	}
}

func (a *App) renderAnalysis(s analysis.Snapshot) {
	switch s.State {
	case analysis.Rejected:
		a.println("Cannot analyze:", s.Message)
	case analysis.Failed:
		// Already reported by the workflow notification.
	case analysis.Succeeded:
		a.println(formatResult(s))
	default:
		a.println("Analysis cancelled")
	}
}

func formatResult(s analysis.Snapshot) string {
	var b strings.Builder

	score := s.Result.FitScore
	fmt.Fprintf(&b, "Resume Fit Score: %d%%\n", score)
	fmt.Fprintf(&b, "[%s]\n", scoreBar(score))
	fmt.Fprintln(&b, fitVerdict(score))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Improvement Insights:")
	if len(s.Result.Insights) == 0 {
		fmt.Fprint(&b, "  (none)")
	}
	for i, insight := range s.Result.Insights {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %d. %s", i+1, insight)
	}
	return b.String()
}

func scoreBar(score int) string {
	filled := score * barWidth / 100
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

func fitVerdict(score int) string {
	switch {
	case score >= 80:
		return "Great match! Your resume aligns well with this job."
	case score >= 60:
		return "Good match with room for improvement."
	default:
		return "Consider updating your resume to better match this job."
	}
}

// Reset discards the current analysis, cancelling it if it is still running.
func (a *App) Reset(_ context.Context) error {
	a.workflow.Reset()
	a.println("Analysis cleared")
	return nil
}

// Status prints the session, connectivity and last analysis.
func (a *App) Status(_ context.Context) error {
	snap := a.session.Snapshot()
	switch {
	case snap.Loading:
		a.println("Session: loading")
	case snap.IsAuthenticated():
		line := fmt.Sprintf("Session: signed in as %s <%s>", snap.Identity.Name, snap.Identity.Email)
		if !snap.ExpiresAt.IsZero() {
			line += fmt.Sprintf(", token expires %s", snap.ExpiresAt.Local().Format(time.DateTime))
		}
		a.println(line)
	default:
		a.println("Session: not signed in")
	}

	mode := a.Mode()
	if mode == ModeUnknown {
		mode = "unknown"
	}
	a.println(fmt.Sprintf("Server: %s (%s)", a.config.ServerBaseURL, mode))

	w := a.workflow.Snapshot()
	switch w.State {
	case analysis.Idle:
		a.println("Analysis: none")
	case analysis.Submitting:
		a.println(fmt.Sprintf("Analysis: running, %d%% (%s)", w.Progress, analysis.Narrative(w.Progress)))
	case analysis.Succeeded:
		a.println(fmt.Sprintf("Analysis: fit score %d%%", w.Result.FitScore))
	default:
		a.println(fmt.Sprintf("Analysis: %s, %s", w.State, w.Message))
	}
	return nil
}
