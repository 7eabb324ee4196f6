// Package sample selects the weekly commits of a project's history to analyze.
package sample

import (
	"errors"
	"iter"
	"time"

	"github.com/clokep/arewetypedyet/schema"
)

// ErrSamplerConsumed is yielded when a Sampler is iterated a second time.
var ErrSamplerConsumed = errors.New("sampler has already been consumed")

// weekDays is how far the day cursor moves back after each selection.
const weekDays = 7

// Sampler walks a newest-first commit stream and keeps roughly one commit per week.
//
// The branch tip is always kept. After that a commit is kept when it is older than the
// day cursor or is the configured initial commit, and every such selection moves the
// cursor back one week, no matter how far past the cursor the commit was. A long gap
// in the history therefore costs samples instead of producing one per empty week.
type Sampler struct {
	initialCommit string
	day           time.Time
	seen          int
	consumed      bool
}

// NewSampler creates a sampler anchored at startDay, normally LatestMonday(now).
func NewSampler(initialCommitID string, startDay time.Time) *Sampler {
	return &Sampler{
		initialCommit: initialCommitID,
		day:           startDay,
	}
}

// Day returns the current cursor.
func (s *Sampler) Day() time.Time {
	return s.day
}

// Select advances the state machine by one commit and reports whether it is kept.
func (s *Sampler) Select(c schema.Commit) bool {
	first := s.seen == 0
	s.seen++
	if first {
		return true
	}
	if c.Time.Before(s.day) || c.ID == s.initialCommit {
		s.day = s.day.AddDate(0, 0, -weekDays)
		return true
	}
	return false
}

// Sample lazily filters commits. The returned sequence may be ranged over once;
// iterating it again yields ErrSamplerConsumed. An error from the upstream stream
// is passed through and ends the walk.
func (s *Sampler) Sample(commits iter.Seq2[schema.Commit, error]) iter.Seq2[schema.Commit, error] {
	return func(yield func(schema.Commit, error) bool) {
		if s.consumed {
			yield(schema.Commit{}, ErrSamplerConsumed)
			return
		}
		s.consumed = true

		for c, err := range commits {
			if err != nil {
				yield(schema.Commit{}, err)
				return
			}
			if s.Select(c) && !yield(c, nil) {
				return
			}
		}
	}
}

// LatestMonday returns midnight of the most recent Monday at or before now,
// in now's location.
func LatestMonday(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	sinceMonday := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -sinceMonday)
}

// Commits adapts a slice to a commit stream.
func Commits(commits ...schema.Commit) iter.Seq2[schema.Commit, error] {
	return func(yield func(schema.Commit, error) bool) {
		for _, c := range commits {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Collect drains a commit stream, stopping at the first error.
func Collect(seq iter.Seq2[schema.Commit, error]) ([]schema.Commit, error) {
	var out []schema.Commit
	for c, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}
