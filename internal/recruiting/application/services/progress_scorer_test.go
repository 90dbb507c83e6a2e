package services

import (
	"math"
	"testing"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoreWeights(t *testing.T) {
	w := DefaultScoreWeights()

	assert.Equal(t, 0.35, w.TaskCompletion)
	assert.Equal(t, 0.25, w.InteractionFrequency)
	assert.Equal(t, 0.25, w.CoachInterest)
	assert.Equal(t, 0.15, w.AcademicStanding)
	assert.NoError(t, w.Validate())
}

func TestNewProgressScorer(t *testing.T) {
	t.Run("accepts defaults", func(t *testing.T) {
		s, err := NewProgressScorer(DefaultScoreWeights())
		require.NoError(t, err)
		assert.Equal(t, DefaultScoreWeights(), s.Weights())
	})

	t.Run("rejects weights not summing to one", func(t *testing.T) {
		_, err := NewProgressScorer(ScoreWeights{TaskCompletion: 0.5, InteractionFrequency: 0.25})
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		_, err := NewProgressScorer(ScoreWeights{TaskCompletion: 1.2, InteractionFrequency: -0.2})
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})
}

func TestProgressScorer_CompositeScore(t *testing.T) {
	s := DefaultProgressScorer()

	tests := []struct {
		name string
		in   progress.ScoreInputs
		want int
	}{
		{"all max", progress.ScoreInputs{TaskCompletionRate: 100, InteractionFrequencyScore: 100, CoachInterestScore: 100, AcademicStandingScore: 100}, 100},
		{"all zero", progress.ScoreInputs{}, 0},
		{"weighted blend", progress.ScoreInputs{TaskCompletionRate: 80, InteractionFrequencyScore: 60, CoachInterestScore: 40, AcademicStandingScore: 20}, 56},          // 28+15+10+3
		{"half rounds up", progress.ScoreInputs{TaskCompletionRate: 10, InteractionFrequencyScore: 0, CoachInterestScore: 0, AcademicStandingScore: 0}, 4},              // 3.5
		{"float noise at boundary", progress.ScoreInputs{TaskCompletionRate: 70, InteractionFrequencyScore: 80, CoachInterestScore: 80, AcademicStandingScore: 70}, 75}, // 24.5+20+20+10.5
		{"over range clamped", progress.ScoreInputs{TaskCompletionRate: 500, InteractionFrequencyScore: 500, CoachInterestScore: 500, AcademicStandingScore: 500}, 100},
		{"negative clamped", progress.ScoreInputs{TaskCompletionRate: -50, InteractionFrequencyScore: -1, CoachInterestScore: -1000, AcademicStandingScore: -3}, 0},
		{"nan counts as zero", progress.ScoreInputs{TaskCompletionRate: math.NaN(), InteractionFrequencyScore: 100, CoachInterestScore: 100, AcademicStandingScore: 100}, 65},
		{"inf clamped", progress.ScoreInputs{TaskCompletionRate: math.Inf(1), InteractionFrequencyScore: math.Inf(-1), CoachInterestScore: 0, AcademicStandingScore: 0}, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CompositeScore(tt.in))
		})
	}
}

func TestProgressScorer_CompositeScoreAlwaysInRange(t *testing.T) {
	s := DefaultProgressScorer()
	values := []float64{-1e9, -1, 0, 0.4999, 0.5, 33.3, 49.5, 74.5, 99.99, 100, 101, 1e9, math.NaN(), math.Inf(1), math.Inf(-1)}

	for _, a := range values {
		for _, b := range values {
			score := s.CompositeScore(progress.ScoreInputs{TaskCompletionRate: a, InteractionFrequencyScore: b, CoachInterestScore: b, AcademicStandingScore: a})
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestProgressScorer_TaskCompletionRate(t *testing.T) {
	s := DefaultProgressScorer()

	tests := []struct {
		name      string
		completed []string
		required  []string
		want      int
	}{
		{"nothing required", nil, nil, 0},
		{"empty slices", []string{}, []string{}, 0},
		{"single done", []string{"a"}, []string{"a"}, 100},
		{"none done", []string{}, []string{"a", "b"}, 0},
		{"one of three", []string{"a"}, []string{"a", "b", "c"}, 33},
		{"two of three", []string{"a", "b"}, []string{"a", "b", "c"}, 67},
		{"extra completions ignored", []string{"a", "x", "y"}, []string{"a", "b"}, 50},
		{"duplicates counted once", []string{"a", "a", "a"}, []string{"a", "b", "b"}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.TaskCompletionRate(tt.completed, tt.required))
		})
	}
}

func TestProgressScorer_InteractionFrequencyScore(t *testing.T) {
	s := DefaultProgressScorer()
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		days int
		want int
	}{
		{-3, 100},
		{0, 100},
		{7, 100},
		{8, 80},
		{14, 80},
		{15, 60},
		{21, 60},
		{22, 40},
		{30, 40},
		{31, 0},
		{365, 0},
	}
	for _, tt := range tests {
		signal := progress.InteractionSignal{LastInteractionAt: &last, DaysSinceLastInteraction: tt.days, TargetSchoolCount: 3}
		assert.Equal(t, tt.want, s.InteractionFrequencyScore(signal), "days=%d", tt.days)
	}

	t.Run("no interaction", func(t *testing.T) {
		assert.Equal(t, 0, s.InteractionFrequencyScore(progress.InteractionSignal{TargetSchoolCount: 3}))
	})

	t.Run("no target schools", func(t *testing.T) {
		signal := progress.InteractionSignal{LastInteractionAt: &last, DaysSinceLastInteraction: 1}
		assert.Equal(t, 0, s.InteractionFrequencyScore(signal))
	})

	t.Run("derived from timestamp", func(t *testing.T) {
		now := last.Add(10 * 24 * time.Hour)
		signal := progress.SignalFromLastInteraction(&last, 2, now)
		assert.Equal(t, 10, signal.DaysSinceLastInteraction)
		assert.Equal(t, 80, s.InteractionFrequencyScore(signal))
	})
}

func TestProgressScorer_CoachInterestScore(t *testing.T) {
	s := DefaultProgressScorer()
	mixed := []progress.InterestLevel{progress.InterestHigh, progress.InterestMedium, progress.InterestLow}

	t.Run("mixed levels average to 60", func(t *testing.T) {
		assert.Equal(t, 60, s.CoachInterestScore(mixed, 0))
	})

	t.Run("priority bonus capped at 10", func(t *testing.T) {
		score := s.CoachInterestScore(mixed, 3)
		assert.LessOrEqual(t, score, 100)
		assert.Equal(t, 70, score)
		assert.Equal(t, 65, s.CoachInterestScore(mixed, 1))
	})

	t.Run("clamped at 100", func(t *testing.T) {
		assert.Equal(t, 100, s.CoachInterestScore([]progress.InterestLevel{progress.InterestHigh}, 2))
	})

	t.Run("empty is zero", func(t *testing.T) {
		assert.Equal(t, 0, s.CoachInterestScore(nil, 3))
	})

	t.Run("unknown level counts as zero", func(t *testing.T) {
		levels := progress.ParseInterestLevels([]string{"HIGH", "lukewarm"})
		assert.Equal(t, 50, s.CoachInterestScore(levels, 0))
	})

	t.Run("negative priority count ignored", func(t *testing.T) {
		assert.Equal(t, 60, s.CoachInterestScore(mixed, -4))
	})
}

func TestProgressScorer_AcademicStandingScore(t *testing.T) {
	s := DefaultProgressScorer()
	gpa := func(v float64) *float64 { return &v }
	num := func(v int) *int { return &v }

	tests := []struct {
		name    string
		profile progress.AcademicProfile
		want    int
	}{
		{"empty", progress.AcademicProfile{}, 0},
		{"top bands", progress.AcademicProfile{GPA: gpa(3.8), SAT: num(1300), Eligibility: progress.EligibilityRegistered}, 100},
		{"gpa 3.0", progress.AcademicProfile{GPA: gpa(3.0)}, 30},
		{"gpa 2.5", progress.AcademicProfile{GPA: gpa(2.5)}, 20},
		{"gpa 2.0", progress.AcademicProfile{GPA: gpa(2.0)}, 10},
		{"gpa below 2", progress.AcademicProfile{GPA: gpa(1.9)}, 0},
		{"sat 1000", progress.AcademicProfile{SAT: num(1000)}, 20},
		{"sat 900", progress.AcademicProfile{SAT: num(900)}, 10},
		{"sat preferred over act", progress.AcademicProfile{SAT: num(850), ACT: num(30)}, 0},
		{"act 28", progress.AcademicProfile{ACT: num(28)}, 30},
		{"act 24", progress.AcademicProfile{ACT: num(24)}, 20},
		{"act 20", progress.AcademicProfile{ACT: num(20)}, 10},
		{"pending eligibility", progress.AcademicProfile{Eligibility: progress.EligibilityPending}, 15},
		{"not started eligibility", progress.AcademicProfile{Eligibility: progress.EligibilityNotStarted}, 0},
		{"mixed", progress.AcademicProfile{GPA: gpa(3.2), ACT: num(25), Eligibility: progress.EligibilityPending}, 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.AcademicStandingScore(tt.profile))
		})
	}
}

func TestProgressScorer_StatusLabel(t *testing.T) {
	s := DefaultProgressScorer()

	tests := []struct {
		score int
		want  progress.Label
	}{
		{100, progress.LabelOnTrack},
		{75, progress.LabelOnTrack},
		{74, progress.LabelSlightlyBehind},
		{50, progress.LabelSlightlyBehind},
		{49, progress.LabelAtRisk},
		{0, progress.LabelAtRisk},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.StatusLabel(tt.score), "score=%d", tt.score)
	}
}

func TestProgressScorer_Evaluate(t *testing.T) {
	s := DefaultProgressScorer()

	status := s.Evaluate(progress.ScoreInputs{TaskCompletionRate: 100, InteractionFrequencyScore: 100, CoachInterestScore: 100, AcademicStandingScore: 100})
	assert.Equal(t, progress.CompositeStatus{Score: 100, Label: progress.LabelOnTrack}, status)

	status = s.Evaluate(progress.ScoreInputs{})
	assert.Equal(t, progress.CompositeStatus{Score: 0, Label: progress.LabelAtRisk}, status)
}
