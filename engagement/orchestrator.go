package engagement

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"neshama/models"
	"neshama/utils"
)

// Campaign names used in reports and progress events.
const (
	CampaignDaily   = "daily"
	CampaignEvening = "evening"
)

// RunReport summarizes one finished batch run.
type RunReport struct {
	Campaign          string    `json:"campaign"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	Processed         int       `json:"processed"`
	Sent              int       `json:"sent"`
	SkippedNoActivity int       `json:"skipped_no_activity,omitempty"`
	Errors            int       `json:"errors"`
}

// ProgressEvent is one step of a running batch, streamed to dashboards.
type ProgressEvent struct {
	Campaign  string    `json:"campaign"`
	Stage     string    `json:"stage"` // started, user_processed, finished
	UserID    uint      `json:"user_id,omitempty"`
	EmailType EmailType `json:"email_type,omitempty"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Sent      int       `json:"sent"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressHub fans progress events out to websocket subscribers. Slow
// subscribers lose events rather than stalling the run.
type ProgressHub struct {
	mu   sync.Mutex
	subs map[chan ProgressEvent]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[chan ProgressEvent]struct{})}
}

func (h *ProgressHub) Subscribe() (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *ProgressHub) Publish(ev ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Orchestrator drives the two batch runs: the daily drip campaign and the
// evening same-day feedback loop.
type Orchestrator struct {
	Repo      UserRepository
	Builder   *SnapshotBuilder
	Detector  ActivityDetector
	Insights  InsightProvider
	Transport EmailTransport
	Store     CampaignStore
	Dict      DictionaryProvider

	// Concurrency bounds the per-user worker pool. Zero or negative
	// means sequential.
	Concurrency int

	// Now is swappable for tests.
	Now func() time.Time

	Hub *ProgressHub

	mu          sync.Mutex
	lastDaily   *RunReport
	lastEvening *RunReport
}

func NewOrchestrator(repo UserRepository, builder *SnapshotBuilder, detector ActivityDetector,
	insights InsightProvider, transport EmailTransport, store CampaignStore,
	dict DictionaryProvider, concurrency int) *Orchestrator {
	return &Orchestrator{
		Repo:        repo,
		Builder:     builder,
		Detector:    detector,
		Insights:    insights,
		Transport:   transport,
		Store:       store,
		Dict:        dict,
		Concurrency: concurrency,
		Now:         time.Now,
		Hub:         NewProgressHub(),
	}
}

// LastReport returns the most recent finished report of the named campaign,
// or nil if it has not run yet.
func (o *Orchestrator) LastReport(campaign string) *RunReport {
	o.mu.Lock()
	defer o.mu.Unlock()
	if campaign == CampaignEvening {
		return o.lastEvening
	}
	return o.lastDaily
}

// RunDailyCampaign processes every daily candidate once. Per-user failures
// are logged and counted, never propagated; only a failure to list the
// candidates aborts the run.
func (o *Orchestrator) RunDailyCampaign(ctx context.Context) (*RunReport, error) {
	started := o.Now()
	users, err := o.Repo.FindDailyCampaignCandidates(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("🚀 Daily engagement run starting for %d users", len(users))
	o.Hub.Publish(ProgressEvent{Campaign: CampaignDaily, Stage: "started", Total: len(users), Timestamp: started})

	var processed, sent, errCount atomic.Int64

	g := &errgroup.Group{}
	g.SetLimit(o.workerLimit())
	for i := range users {
		if ctx.Err() != nil {
			break
		}
		user := users[i]
		g.Go(func() error {
			outcome := o.processDailyUser(ctx, &user)
			processed.Add(1)
			switch outcome {
			case outcomeSent:
				sent.Add(1)
			case outcomeError:
				errCount.Add(1)
			}
			o.Hub.Publish(ProgressEvent{
				Campaign:  CampaignDaily,
				Stage:     "user_processed",
				UserID:    user.ID,
				Processed: int(processed.Load()),
				Total:     len(users),
				Sent:      int(sent.Load()),
				Timestamp: o.Now(),
			})
			return nil
		})
	}
	_ = g.Wait()

	report := &RunReport{
		Campaign:   CampaignDaily,
		StartedAt:  started,
		FinishedAt: o.Now(),
		Processed:  int(processed.Load()),
		Sent:       int(sent.Load()),
		Errors:     int(errCount.Load()),
	}
	o.mu.Lock()
	o.lastDaily = report
	o.mu.Unlock()

	o.Hub.Publish(ProgressEvent{Campaign: CampaignDaily, Stage: "finished", Processed: report.Processed, Total: len(users), Sent: report.Sent, Timestamp: report.FinishedAt})
	log.Infof("✅ Daily engagement run finished: processed=%d sent=%d errors=%d", report.Processed, report.Sent, report.Errors)
	return report, nil
}

// RunEveningCampaign sends same-day feedback to users who were active today.
func (o *Orchestrator) RunEveningCampaign(ctx context.Context) (*RunReport, error) {
	started := o.Now()
	users, err := o.Repo.FindTodaysActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("🌙 Evening feedback run starting for %d users", len(users))
	o.Hub.Publish(ProgressEvent{Campaign: CampaignEvening, Stage: "started", Total: len(users), Timestamp: started})

	var processed, sent, skipped, errCount atomic.Int64

	g := &errgroup.Group{}
	g.SetLimit(o.workerLimit())
	for i := range users {
		if ctx.Err() != nil {
			break
		}
		user := users[i]
		g.Go(func() error {
			outcome := o.processEveningUser(ctx, &user)
			processed.Add(1)
			switch outcome {
			case outcomeSent:
				sent.Add(1)
			case outcomeSkippedNoActivity:
				skipped.Add(1)
			case outcomeError:
				errCount.Add(1)
			}
			o.Hub.Publish(ProgressEvent{
				Campaign:  CampaignEvening,
				Stage:     "user_processed",
				UserID:    user.ID,
				Processed: int(processed.Load()),
				Total:     len(users),
				Sent:      int(sent.Load()),
				Timestamp: o.Now(),
			})
			return nil
		})
	}
	_ = g.Wait()

	report := &RunReport{
		Campaign:          CampaignEvening,
		StartedAt:         started,
		FinishedAt:        o.Now(),
		Processed:         int(processed.Load()),
		Sent:              int(sent.Load()),
		SkippedNoActivity: int(skipped.Load()),
		Errors:            int(errCount.Load()),
	}
	o.mu.Lock()
	o.lastEvening = report
	o.mu.Unlock()

	o.Hub.Publish(ProgressEvent{Campaign: CampaignEvening, Stage: "finished", Processed: report.Processed, Total: len(users), Sent: report.Sent, Timestamp: report.FinishedAt})
	log.Infof("✅ Evening feedback run finished: processed=%d sent=%d skipped=%d errors=%d",
		report.Processed, report.Sent, report.SkippedNoActivity, report.Errors)
	return report, nil
}

type userOutcome int

const (
	outcomeSkipped userOutcome = iota
	outcomeSent
	outcomeSkippedNoActivity
	outcomeError
)

// processDailyUser runs the full pipeline for one user: snapshot without AI,
// decide, lazily load insights only when the chosen type needs them,
// generate, send, persist. The sent counter moves only after the campaign
// record update succeeds.
func (o *Orchestrator) processDailyUser(ctx context.Context, user *models.User) userOutcome {
	profile, err := o.Builder.Build(ctx, user.ID, false)
	if err != nil {
		utils.LogError(err, "engagement_profile_failed", map[string]interface{}{"user_id": user.ID})
		return outcomeError
	}

	emailType := DetermineEmailType(profile, o.Now())
	if emailType == EmailTypeNone {
		return outcomeSkipped
	}

	if NeedsAI(emailType) {
		profile.EnsureInsights(ctx, o.Insights)
	}

	dict := o.Dict.GetEmailDictionary(user.Language)
	directive := GenerateDirective(emailType, profile, dict)
	if directive == nil {
		return outcomeSkipped
	}

	if !o.Transport.Send(ctx, user, directive) {
		return outcomeError
	}
	if err := o.Store.Update(ctx, user.ID, directive.Type); err != nil {
		utils.LogError(err, "campaign_record_failed", map[string]interface{}{
			"user_id":    user.ID,
			"email_type": string(directive.Type),
		})
		return outcomeError
	}
	return outcomeSent
}

// processEveningUser builds the snapshot with AI up front, since the
// feedback email always wants an insight, then gates on today's activity.
func (o *Orchestrator) processEveningUser(ctx context.Context, user *models.User) userOutcome {
	profile, err := o.Builder.Build(ctx, user.ID, true)
	if err != nil {
		utils.LogError(err, "engagement_profile_failed", map[string]interface{}{"user_id": user.ID})
		return outcomeError
	}

	activity, err := o.Detector.Detect(ctx, user.ID)
	if err != nil {
		utils.LogError(err, "activity_detect_failed", map[string]interface{}{"user_id": user.ID})
		return outcomeError
	}
	if !activity.HasActivity {
		return outcomeSkippedNoActivity
	}

	dict := o.Dict.GetEmailDictionary(user.Language)
	directive := GenerateEveningDirective(profile, activity, dict)
	if directive == nil {
		return outcomeSkippedNoActivity
	}

	if !o.Transport.Send(ctx, user, directive) {
		return outcomeError
	}
	if err := o.Store.Update(ctx, user.ID, directive.Type); err != nil {
		utils.LogError(err, "campaign_record_failed", map[string]interface{}{
			"user_id":    user.ID,
			"email_type": string(directive.Type),
		})
		return outcomeError
	}
	return outcomeSent
}

func (o *Orchestrator) workerLimit() int {
	if o.Concurrency < 1 {
		return 1
	}
	return o.Concurrency
}
