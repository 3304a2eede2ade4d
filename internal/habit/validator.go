package habit

import (
	util "github.com/d-medvedev/habits-api/internal/utils"
)

type ViolationKind string

const (
	KindConflictingFields       ViolationKind = "ConflictingFields"
	KindInvalidAssociation      ViolationKind = "InvalidAssociation"
	KindPleasantHabitConstraint ViolationKind = "PleasantHabitConstraint"
	KindDurationTooLong         ViolationKind = "DurationTooLong"
	KindDeadlineInPast          ViolationKind = "DeadlineInPast"
	KindPeriodicityTooLong      ViolationKind = "PeriodicityTooLong"
	KindNotPositive             ViolationKind = "NotPositive"
)

type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

const (
	maxTimeToComplete = 2
	maxPeriodicity    = 7
)

// Validate evaluates every rule against the fully-merged habit and returns all
// violations at once. associated is the habit referenced by AssociatedHabitID,
// already loaded by the caller (nil when the reference is unset or dangling).
func Validate(h *Habit, associated *Habit, today util.Date) []Violation {
	var violations []Violation

	violations = append(violations, checkHabit(h, associated)...)
	violations = append(violations, checkTimeToComplete(h)...)
	violations = append(violations, checkDateDeadline(h, today)...)
	violations = append(violations, checkPeriodicity(h)...)

	return violations
}

// checkHabit enforces the cross-field reward/association constraints.
func checkHabit(h *Habit, associated *Habit) []Violation {
	var violations []Violation

	if h.AssociatedHabitID != nil && h.Reward != nil {
		violations = append(violations, Violation{
			Kind:    KindConflictingFields,
			Message: "a habit cannot have both a reward and an associated habit, fill in only one of the two",
		})
	}
	if h.AssociatedHabitID != nil && (associated == nil || !associated.Enjoyable()) {
		violations = append(violations, Violation{
			Kind:    KindInvalidAssociation,
			Message: "only habits marked as enjoyable can be used as an associated habit",
		})
	}
	if h.Enjoyable() {
		if h.Reward != nil {
			violations = append(violations, Violation{
				Kind:    KindPleasantHabitConstraint,
				Message: "an enjoyable habit cannot have a reward",
			})
		}
		if h.AssociatedHabitID != nil {
			violations = append(violations, Violation{
				Kind:    KindPleasantHabitConstraint,
				Message: "an enjoyable habit cannot have an associated habit",
			})
		}
	}

	return violations
}

func checkTimeToComplete(h *Habit) []Violation {
	if h.TimeToComplete == nil {
		return nil
	}
	if *h.TimeToComplete < 1 {
		return []Violation{{
			Kind:    KindNotPositive,
			Message: "time to complete must be a positive number of minutes",
		}}
	}
	if *h.TimeToComplete > maxTimeToComplete {
		return []Violation{{
			Kind:    KindDurationTooLong,
			Message: "time to complete must not exceed 2 minutes",
		}}
	}
	return nil
}

func checkDateDeadline(h *Habit, today util.Date) []Violation {
	if h.DateDeadline == nil || h.DateDeadline.IsZero() {
		return nil
	}
	if h.DateDeadline.Before(today) {
		return []Violation{{
			Kind:    KindDeadlineInPast,
			Message: "a habit cannot be scheduled in the past",
		}}
	}
	return nil
}

func checkPeriodicity(h *Habit) []Violation {
	if h.Periodicity < 1 {
		return []Violation{{
			Kind:    KindNotPositive,
			Message: "periodicity must be a positive number of days",
		}}
	}
	if h.Periodicity > maxPeriodicity {
		return []Violation{{
			Kind:    KindPeriodicityTooLong,
			Message: "a habit cannot go unperformed for more than 7 days",
		}}
	}
	return nil
}
