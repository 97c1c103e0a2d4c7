package batch

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/totals-engine/internal/engine"
	"github.com/yourusername/totals-engine/internal/models"
)

var asOf = time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeComputer struct {
	failTeam int64
	active   int32
	peak     int32
	mu       sync.Mutex
	requests []engine.Request
}

func (f *fakeComputer) Compute(ctx context.Context, req engine.Request) (*models.Result, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.TeamA.TeamID == f.failTeam {
		return models.InsufficientResult(), models.NewCollaboratorError("fetch observations", errors.New("down"))
	}
	return &models.Result{SegmentUsed: "h2h_3y", NUsed: 6}, nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved []models.MatchupKey
}

func (f *fakeStore) Save(ctx context.Context, key models.MatchupKey, asOf time.Time, result *models.Result) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, key)
	return uuid.New(), nil
}

type fakeResolver struct{}

func (fakeResolver) ResolvePair(ctx context.Context, sportID string, a, b models.TeamRef) (models.TeamRef, models.TeamRef, error) {
	fa, fb := a.TeamID*100, b.TeamID*100
	a.FranchiseID, b.FranchiseID = &fa, &fb
	return a, b, nil
}

func matchups(n int) []Matchup {
	out := make([]Matchup, n)
	for i := range out {
		out[i] = Matchup{SportID: "nba", TeamA: int64(i + 1), TeamB: int64(i + 100)}
	}
	return out
}

func TestRunBoundsConcurrency(t *testing.T) {
	computer := &fakeComputer{}
	store := &fakeStore{}
	var lastCompleted int64
	runner := NewRunner(computer, fakeResolver{}, store, Options{
		Concurrency:     3,
		ContinueOnError: true,
		Progress: func(completed, failed, total int64) {
			atomic.StoreInt64(&lastCompleted, completed)
		},
	}, quietLogger())

	outcomes, err := runner.Run(context.Background(), matchups(12), asOf)
	require.NoError(t, err)
	require.Len(t, outcomes, 12)

	assert.LessOrEqual(t, atomic.LoadInt32(&computer.peak), int32(3))
	assert.Len(t, store.saved, 12)
	assert.Equal(t, int64(12), atomic.LoadInt64(&lastCompleted))
	for i, o := range outcomes {
		assert.Equal(t, int64(i+1), o.Matchup.TeamA)
		assert.NotNil(t, o.ResultID)
	}
	for _, key := range store.saved {
		assert.Equal(t, models.KeyedByFranchise, key.KeyedBy)
	}
}

func TestRunContinuesOnError(t *testing.T) {
	computer := &fakeComputer{failTeam: 2}
	runner := NewRunner(computer, nil, nil, Options{Concurrency: 2, ContinueOnError: true}, quietLogger())

	outcomes, err := runner.Run(context.Background(), matchups(4), asOf)
	require.NoError(t, err)

	require.Error(t, outcomes[1].Err())
	assert.ErrorIs(t, outcomes[1].Err(), models.ErrCollaborator)
	assert.True(t, outcomes[1].Result.IsInsufficient())
	assert.NotEmpty(t, outcomes[1].Error)
	assert.NoError(t, outcomes[3].Err())
}

func TestRunStopsOnError(t *testing.T) {
	computer := &fakeComputer{failTeam: 1}
	runner := NewRunner(computer, nil, nil, Options{Concurrency: 1}, quietLogger())

	_, err := runner.Run(context.Background(), matchups(5), asOf)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCollaborator)
	assert.Less(t, len(computer.requests), 5)
}

func TestRunUsesEntryAsOf(t *testing.T) {
	computer := &fakeComputer{}
	runner := NewRunner(computer, nil, nil, Options{Concurrency: 1}, quietLogger())

	custom := asOf.AddDate(-1, 0, 0)
	_, err := runner.Run(context.Background(), []Matchup{{SportID: "nhl", TeamA: 4, TeamB: 5, AsOf: &custom}}, asOf)
	require.NoError(t, err)
	require.Len(t, computer.requests, 1)
	assert.Equal(t, custom, computer.requests[0].AsOf)
}

func TestReadMatchups(t *testing.T) {
	input := `[{"sport_id":"nba","team_a":7,"team_b":3},{"sport_id":"nfl","team_a":10,"team_b":20,"as_of":"2025-09-01T00:00:00Z"}]`

	got, err := ReadMatchups(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].TeamA)
	require.NotNil(t, got[1].AsOf)
	assert.Equal(t, 2025, got[1].AsOf.Year())
}

func TestReadMatchupsRejectsInvalid(t *testing.T) {
	for _, input := range []string{
		`[{"sport_id":"","team_a":7,"team_b":3}]`,
		`[{"sport_id":"nba","team_a":7,"team_b":7}]`,
		`[{"sport_id":"nba","team_a":0,"team_b":3}]`,
		`{"sport_id":"nba"}`,
	} {
		_, err := ReadMatchups(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}
