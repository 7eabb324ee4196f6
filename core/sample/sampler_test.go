package sample

import (
	"errors"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is a fixed start day so the tests do not depend on the wall clock.
var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

// history builds n commits, newest first, starting at newest and spaced by step.
func history(n int, newest time.Time, step time.Duration) []schema.Commit {
	commits := make([]schema.Commit, n)
	for i := range n {
		commits[i] = schema.Commit{
			ID:   fmt.Sprintf("%040d", i),
			Time: newest.Add(-time.Duration(i) * step),
		}
	}
	return commits
}

// selectedIndexes runs a sampler and maps its output back to input positions.
func selectedIndexes(t *testing.T, s *Sampler, commits []schema.Commit) []int {
	t.Helper()
	pos := make(map[string]int, len(commits))
	for i, c := range commits {
		pos[c.ID] = i
	}
	got, err := Collect(s.Sample(Commits(commits...)))
	require.NoError(t, err)
	idx := make([]int, len(got))
	for i, c := range got {
		idx[i] = pos[c.ID]
	}
	return idx
}

func TestLatestMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday midnight", monday, monday},
		{"monday afternoon", monday.Add(15 * time.Hour), monday},
		{"wednesday", monday.AddDate(0, 0, 2).Add(9 * time.Hour), monday},
		{"sunday night", monday.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute), monday},
		{"next monday", monday.AddDate(0, 0, 7).Add(time.Minute), monday.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestMonday(tt.now)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestLatestMonday_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, time.March, 4, 5, 0, 0, 0, loc) // Monday local, Sunday in UTC
	got := LatestMonday(now)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 4, got.Day())
}

func TestSampler_AlwaysIncludesFirstCommit(t *testing.T) {
	// Tip is newer than the start day, so only rule 1 can select it.
	commits := history(3, monday.Add(72*time.Hour), time.Hour)
	got := selectedIndexes(t, NewSampler("", monday), commits)
	assert.Equal(t, []int{0}, got)

	// Tip older than the start day is still selected without moving the cursor.
	s := NewSampler("", monday)
	assert.True(t, s.Select(schema.Commit{ID: "tip", Time: monday.AddDate(-1, 0, 0)}))
	assert.True(t, monday.Equal(s.Day()))
}

func TestSampler_AlwaysIncludesInitialCommit(t *testing.T) {
	// All commits are newer than the start day; the initial commit sits mid-stream.
	commits := history(10, monday.Add(48*time.Hour), time.Hour)
	initial := commits[6].ID

	s := NewSampler(initial, monday)
	got := selectedIndexes(t, s, commits)
	assert.Equal(t, []int{0, 6}, got)
	assert.True(t, monday.AddDate(0, 0, -7).Equal(s.Day()), "initial-commit selection moves the cursor")
}

func TestSampler_DailyCommitsGiveWeeklySamples(t *testing.T) {
	commits := history(30, monday, 24*time.Hour)
	s := NewSampler("0000000000000000000000000000000000000999", monday)

	got := selectedIndexes(t, s, commits)
	assert.Equal(t, []int{0, 1, 8, 15, 22, 29}, got)

	// After the tip, consecutive samples are exactly a week apart.
	for i := 2; i < len(got); i++ {
		gap := commits[got[i-1]].Time.Sub(commits[got[i]].Time)
		assert.Equal(t, 7*24*time.Hour, gap)
	}
	assert.True(t, monday.AddDate(0, 0, -5*7).Equal(s.Day()), "one decrement per selection after the tip")
}

func TestSampler_SparseHistoryMovesCursorOncePerSelection(t *testing.T) {
	commits := []schema.Commit{
		{ID: "tip", Time: monday.Add(time.Hour)},
		{ID: "gap1", Time: monday.AddDate(0, 0, -100)},
		{ID: "gap2", Time: monday.AddDate(0, 0, -100).Add(-time.Hour)},
		{ID: "gap3", Time: monday.AddDate(0, 0, -100).Add(-2 * time.Hour)},
	}
	s := NewSampler("", monday)
	got := selectedIndexes(t, s, commits)

	// Each old commit is selected and moves the cursor back a single week.
	assert.Equal(t, []int{0, 1, 2, 3}, got)
	assert.True(t, monday.AddDate(0, 0, -21).Equal(s.Day()))
}

func TestSampler_FortnightlyHistoryEndToEnd(t *testing.T) {
	now := time.Date(2024, time.March, 7, 16, 45, 0, 0, time.UTC)
	commits := history(15, now, 14*24*time.Hour)
	start := LatestMonday(now)

	got := selectedIndexes(t, NewSampler(commits[14].ID, start), commits)
	require.Len(t, got, 15)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 14, got[14])
}

func TestSampler_EmptyAndSingle(t *testing.T) {
	got, err := Collect(NewSampler("x", monday).Sample(Commits()))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Collect(NewSampler("x", monday).Sample(Commits(schema.Commit{ID: "only", Time: monday})))
	require.NoError(t, err)
	assert.Equal(t, []schema.Commit{{ID: "only", Time: monday}}, got)
}

func TestSampler_ConsumedOnce(t *testing.T) {
	s := NewSampler("", monday)
	seq := s.Sample(Commits(history(3, monday, time.Hour)...))

	first, err := Collect(seq)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	_, err = Collect(seq)
	assert.ErrorIs(t, err, ErrSamplerConsumed)
}

func TestSampler_PassesUpstreamErrors(t *testing.T) {
	boom := errors.New("git rev-list died")
	var upstream iter.Seq2[schema.Commit, error] = func(yield func(schema.Commit, error) bool) {
		if !yield(schema.Commit{ID: "tip", Time: monday}, nil) {
			return
		}
		yield(schema.Commit{}, boom)
	}

	got, err := Collect(NewSampler("", monday).Sample(upstream))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got, 1)
}

func TestSampler_StopsWhenConsumerStops(t *testing.T) {
	pulled := 0
	var upstream iter.Seq2[schema.Commit, error] = func(yield func(schema.Commit, error) bool) {
		for _, c := range history(100, monday, 8*24*time.Hour) {
			pulled++
			if !yield(c, nil) {
				return
			}
		}
	}

	taken := 0
	for _, err := range NewSampler("", monday).Sample(upstream) {
		require.NoError(t, err)
		taken++
		if taken == 3 {
			break
		}
	}
	assert.Equal(t, 3, pulled, "the stream is consumed lazily")
}
