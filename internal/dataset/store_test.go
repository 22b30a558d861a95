package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mlbvalue-mcp/internal/ingest"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	delay time.Duration
}

func (f *fakeSource) load(ctx context.Context) (*table.Table, ingest.Report, string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail.Load() {
		return nil, ingest.Report{}, "", errors.New("disk on fire")
	}
	schema := table.Schema{HasName: true, HasPerformance: true, HasSalary: true}
	return table.New(schema, []table.Record{
		{Name: "a", WAR: 5, Salary: 2, Derived: table.EmptyDerived()},
		{Name: "b", WAR: 2, Salary: 4, Derived: table.EmptyDerived()},
	}), ingest.Report{Rows: 2}, "fake.csv", nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(src *fakeSource) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(src.load, time.Hour)
	s.now = c.now
	return s, c
}

func TestStore_CachesWithinTTL(t *testing.T) {
	src := &fakeSource{}
	s, c := newTestStore(src)
	ctx := context.Background()

	first, err := s.Get(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "fake.csv", first.Source)
	assert.Equal(t, 2.5, first.Table.Records[0].Derived.ValueRatio)

	c.advance(59 * time.Minute)
	again, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.EqualValues(t, 1, src.calls.Load())

	c.advance(2 * time.Minute)
	fresh, err := s.Get(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fresh.ID)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestStore_Invalidate(t *testing.T) {
	src := &fakeSource{}
	s, _ := newTestStore(src)
	ctx := context.Background()

	first, err := s.Get(ctx)
	require.NoError(t, err)

	reloaded, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, reloaded.ID)
	assert.Same(t, reloaded, s.Current())
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestStore_ReloadDuringLoadServesNewData(t *testing.T) {
	var version atomic.Int32
	version.Store(1)
	var calls atomic.Int32
	blocked := make(chan struct{})
	release := make(chan struct{})
	src := func(ctx context.Context) (*table.Table, ingest.Report, string, error) {
		war := float64(version.Load())
		if calls.Add(1) == 1 {
			close(blocked)
			<-release
		}
		schema := table.Schema{HasName: true, HasPerformance: true, HasSalary: true}
		return table.New(schema, []table.Record{
			{Name: "a", WAR: war, Salary: 1, Derived: table.EmptyDerived()},
			{Name: "b", WAR: 3, Salary: 4, Derived: table.EmptyDerived()},
		}), ingest.Report{Rows: 2}, "versioned.csv", nil
	}
	s := NewStore(src, time.Hour)
	ctx := context.Background()

	var g errgroup.Group
	var early *Snapshot
	g.Go(func() error {
		snap, err := s.Get(ctx)
		early = snap
		return err
	})
	<-blocked

	version.Store(2)
	reloaded, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, reloaded.Table.Records[0].WAR)

	close(release)
	require.NoError(t, g.Wait())
	assert.Equal(t, 1.0, early.Table.Records[0].WAR)

	next, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, reloaded, next)
	assert.Same(t, reloaded, s.Current())
	assert.EqualValues(t, 2, calls.Load())
}

func TestStore_FailedReloadKeepsPublishedSnapshot(t *testing.T) {
	src := &fakeSource{}
	s, _ := newTestStore(src)
	ctx := context.Background()

	good, err := s.Get(ctx)
	require.NoError(t, err)

	src.fail.Store(true)
	_, err = s.Reload(ctx)
	require.Error(t, err)
	assert.Same(t, good, s.Current())
}

func TestStore_FirstLoadFailurePublishesNothing(t *testing.T) {
	src := &fakeSource{}
	src.fail.Store(true)
	s, _ := newTestStore(src)

	var events []LoadEvent
	s.OnLoad = func(ev LoadEvent) { events = append(events, ev) }

	_, err := s.Get(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, s.Current())
	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)
}

func TestStore_ConcurrentGetsShareOneLoad(t *testing.T) {
	src := &fakeSource{delay: 20 * time.Millisecond}
	s, _ := newTestStore(src)

	var g errgroup.Group
	ids := make([]string, 16)
	for i := range ids {
		g.Go(func() error {
			snap, err := s.Get(context.Background())
			if err != nil {
				return err
			}
			ids[i] = snap.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, src.calls.Load())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestStore_CancelledWaiter(t *testing.T) {
	src := &fakeSource{delay: 50 * time.Millisecond}
	s, _ := newTestStore(src)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuild_MissingMeasuresStillServesTable(t *testing.T) {
	src := func(ctx context.Context) (*table.Table, ingest.Report, string, error) {
		return table.New(table.Schema{HasName: true, HasTeam: true}, []table.Record{{Name: "x", Team: "NYY"}}),
			ingest.Report{Rows: 1}, "names.csv", nil
	}
	snap, err := Build(context.Background(), src, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, snap.MetricsErr, metrics.ErrMissingMeasure)
	assert.Equal(t, 1, snap.Table.Len())
}

func TestFileSource(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	csv := "Name,Team,WAR,Salary_millions\nA,NYY,5,2\nB,---,1,1\nC,BOS,2,4\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", ingest.DefaultFileName), []byte(csv), 0o644))

	snap, err := Build(context.Background(), FileSource(root, ""), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Table.Len())
	assert.Equal(t, 1, snap.Report.DroppedRows)
	assert.InDelta(t, 7.0/6.0, snap.Population.LeagueEfficiency, 1e-12)

	_, err = Build(context.Background(), FileSource(t.TempDir(), ""), time.Now())
	assert.ErrorIs(t, err, ingest.ErrNoDataFile)
}
