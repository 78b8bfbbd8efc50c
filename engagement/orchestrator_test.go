package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neshama/models"
)

type fakeRepo struct {
	users []models.User
	data  map[uint]*EngagementData
	err   error
}

func (f *fakeRepo) FindDailyCampaignCandidates(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeRepo) FindTodaysActiveUsers(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeRepo) GetEngagementData(ctx context.Context, userID uint) (*EngagementData, error) {
	d, ok := f.data[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return d, nil
}

type fakeFeedback struct {
	reports map[uint]*FeedbackReport
}

func (f *fakeFeedback) CompileReport(ctx context.Context, userID uint, locale string, skipAI bool) (*FeedbackReport, error) {
	if r, ok := f.reports[userID]; ok {
		return r, nil
	}
	return &FeedbackReport{}, nil
}

type countingInsights struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInsights) GetInsights(ctx context.Context, userID uint, language string) *AiInsights {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &AiInsights{PersonalitySummary: "summary", TopStrengths: []string{"strength"}}
}

type fakeDetector struct {
	reports map[uint]ActivityReport
}

func (f *fakeDetector) Detect(ctx context.Context, userID uint) (ActivityReport, error) {
	return f.reports[userID], nil
}

type recordingTransport struct {
	mu       sync.Mutex
	sent     []EmailType
	failFor  map[uint]bool
	byUserID map[uint]EmailType
}

func (r *recordingTransport) Send(ctx context.Context, user *models.User, directive *EmailDirective) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[user.ID] {
		return false
	}
	r.sent = append(r.sent, directive.Type)
	if r.byUserID == nil {
		r.byUserID = make(map[uint]EmailType)
	}
	r.byUserID[user.ID] = directive.Type
	return true
}

type recordingStore struct {
	mu      sync.Mutex
	updates map[uint][]EmailType
	err     error
}

func (r *recordingStore) Update(ctx context.Context, userID uint, emailType EmailType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.updates == nil {
		r.updates = make(map[uint][]EmailType)
	}
	r.updates[userID] = append(r.updates[userID], emailType)
	return nil
}

func newUser(id uint, name string) models.User {
	u := models.User{Email: name + "@example.com", FirstName: name, Language: "he"}
	u.ID = id
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return u
}

func dataFor(u models.User) *EngagementData {
	uCopy := u
	return &EngagementData{User: uCopy}
}

func testOrchestrator(repo *fakeRepo, feedback ProfileFeedbackService, insights InsightProvider,
	detector ActivityDetector, transport *recordingTransport, store *recordingStore) *Orchestrator {
	builder := NewSnapshotBuilder(repo, feedback, insights)
	return NewOrchestrator(repo, builder, detector, insights, transport, store,
		NewStaticDictionaryProvider(), 2)
}

func TestRunDailyCampaignSendsWelcome(t *testing.T) {
	user := newUser(1, "dana")
	repo := &fakeRepo{
		users: []models.User{user},
		data:  map[uint]*EngagementData{1: dataFor(user)},
	}
	insights := &countingInsights{}
	transport := &recordingTransport{}
	store := &recordingStore{}
	o := testOrchestrator(repo, &fakeFeedback{}, insights, &fakeDetector{}, transport, store)

	report, err := o.RunDailyCampaign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, []EmailType{EmailTypeOnboardingDay1}, transport.sent)
	assert.Equal(t, []EmailType{EmailTypeOnboardingDay1}, store.updates[1])
	assert.Equal(t, 0, insights.calls, "the welcome email never touches the AI provider")
}

func TestRunDailyCampaignLazyAI(t *testing.T) {
	user := newUser(1, "noa")
	user.CreatedAt = time.Now().Add(-20 * 24 * time.Hour)
	data := dataFor(user)
	data.DripCampaign = &models.DripCampaign{
		UserID:         1,
		CurrentStep:    3,
		LastSentType:   string(EmailTypeNudge),
		SentEmailTypes: []string{"ONBOARDING_DAY_1", "NUDGE", "NUDGE"},
	}
	data.DripCampaign.UpdatedAt = time.Now().Add(-48 * time.Hour)

	repo := &fakeRepo{users: []models.User{user}, data: map[uint]*EngagementData{1: data}}
	feedback := &fakeFeedback{reports: map[uint]*FeedbackReport{
		// Overall 55 with questionnaire and photos done steers the ladder to
		// the AI summary.
		1: {CompletionPercentage: 55, QuestionnaireCompletion: 100},
	}}
	insights := &countingInsights{}
	transport := &recordingTransport{}
	store := &recordingStore{}

	o := testOrchestrator(repo, feedback, insights, &fakeDetector{}, transport, store)
	// Photos come from the image list; fake three uploads.
	data.Images = []models.UserImage{{URL: "1"}, {URL: "2"}, {URL: "3"}}

	report, err := o.RunDailyCampaign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, []EmailType{EmailTypeAiSummary}, transport.sent)
	assert.Equal(t, 1, insights.calls, "insights fetched exactly once for an AI email")
}

func TestRunDailyCampaignIsolatesFailures(t *testing.T) {
	broken := newUser(1, "broken")
	healthy := newUser(2, "healthy")
	repo := &fakeRepo{
		users: []models.User{broken, healthy},
		// No data for user 1: the snapshot build fails for them only.
		data: map[uint]*EngagementData{2: dataFor(healthy)},
	}
	transport := &recordingTransport{}
	store := &recordingStore{}
	o := testOrchestrator(repo, &fakeFeedback{}, &countingInsights{}, &fakeDetector{}, transport, store)

	report, err := o.RunDailyCampaign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, []EmailType{EmailTypeOnboardingDay1}, store.updates[2])
}

func TestRunDailyCampaignSendFailureSkipsStore(t *testing.T) {
	user := newUser(1, "dana")
	repo := &fakeRepo{users: []models.User{user}, data: map[uint]*EngagementData{1: dataFor(user)}}
	transport := &recordingTransport{failFor: map[uint]bool{1: true}}
	store := &recordingStore{}
	o := testOrchestrator(repo, &fakeFeedback{}, &countingInsights{}, &fakeDetector{}, transport, store)

	report, err := o.RunDailyCampaign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Errors)
	assert.Empty(t, store.updates, "a failed send must not advance the campaign record")
}

func TestRunDailyCampaignStoreFailureCountsAsError(t *testing.T) {
	user := newUser(1, "dana")
	repo := &fakeRepo{users: []models.User{user}, data: map[uint]*EngagementData{1: dataFor(user)}}
	transport := &recordingTransport{}
	store := &recordingStore{err: errors.New("db down")}
	o := testOrchestrator(repo, &fakeFeedback{}, &countingInsights{}, &fakeDetector{}, transport, store)

	report, err := o.RunDailyCampaign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Errors)
}

func TestRunEveningCampaignGatesOnActivity(t *testing.T) {
	active := newUser(1, "active")
	quiet := newUser(2, "quiet")
	repo := &fakeRepo{
		users: []models.User{active, quiet},
		data: map[uint]*EngagementData{
			1: dataFor(active),
			2: dataFor(quiet),
		},
	}
	detector := &fakeDetector{reports: map[uint]ActivityReport{
		1: {HasActivity: true, NewImages: 1, CompletedToday: []string{"1 new photos"}},
		2: {},
	}}
	transport := &recordingTransport{}
	store := &recordingStore{}
	insights := &countingInsights{}
	o := testOrchestrator(repo, &fakeFeedback{}, insights, detector, transport, store)

	report, err := o.RunEveningCampaign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.SkippedNoActivity)
	assert.Equal(t, []EmailType{EmailTypeEveningFeedback}, store.updates[1])
	assert.Empty(t, store.updates[2])
	assert.Equal(t, 2, insights.calls, "the evening snapshot always includes insights")
}

func TestLastReportPerCampaign(t *testing.T) {
	repo := &fakeRepo{}
	o := testOrchestrator(repo, &fakeFeedback{}, &countingInsights{}, &fakeDetector{},
		&recordingTransport{}, &recordingStore{})

	assert.Nil(t, o.LastReport(CampaignDaily))

	_, err := o.RunDailyCampaign(context.Background())
	require.NoError(t, err)
	require.NotNil(t, o.LastReport(CampaignDaily))
	assert.Nil(t, o.LastReport(CampaignEvening))

	_, err = o.RunEveningCampaign(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, o.LastReport(CampaignEvening))
}

func TestProgressHubFanOut(t *testing.T) {
	hub := NewProgressHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(ProgressEvent{Campaign: CampaignDaily, Stage: "started", Total: 3})

	select {
	case ev := <-ch:
		assert.Equal(t, "started", ev.Stage)
		assert.Equal(t, 3, ev.Total)
	case <-time.After(time.Second):
		t.Fatal("expected a progress event")
	}
}
