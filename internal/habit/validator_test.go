package habit

import (
	"testing"
	"time"

	"github.com/google/uuid"

	util "github.com/d-medvedev/habits-api/internal/utils"
)

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func boolPtr(b bool) *bool      { return &b }
func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func enjoyableHabit() *Habit {
	return &Habit{ID: uuid.New(), Action: "take a bath", IsEnjoyable: boolPtr(true)}
}

func kinds(violations []Violation) map[ViolationKind]int {
	m := map[ViolationKind]int{}
	for _, v := range violations {
		m[v.Kind]++
	}
	return m
}

func TestValidate(t *testing.T) {
	today := util.Today()
	pleasant := enjoyableHabit()
	plain := &Habit{ID: uuid.New(), Action: "read"}

	tests := []struct {
		name       string
		habit      *Habit
		associated *Habit
		want       []ViolationKind
	}{
		{
			name:  "valid minimal habit",
			habit: &Habit{Action: "run", Periodicity: 1},
		},
		{
			name: "valid with reward and limits",
			habit: &Habit{
				Action:         "meditate",
				Reward:         strPtr("coffee"),
				TimeToComplete: intPtr(2),
				Periodicity:    7,
			},
		},
		{
			name: "valid with associated enjoyable habit",
			habit: &Habit{
				Action:            "exercise",
				AssociatedHabitID: idPtr(pleasant.ID),
				Periodicity:       1,
			},
			associated: pleasant,
		},
		{
			name: "reward and associated habit both set",
			habit: &Habit{
				Action:            "exercise",
				Reward:            strPtr("cake"),
				AssociatedHabitID: idPtr(pleasant.ID),
				Periodicity:       1,
			},
			associated: pleasant,
			want:       []ViolationKind{KindConflictingFields},
		},
		{
			name: "associated habit not enjoyable",
			habit: &Habit{
				Action:            "exercise",
				AssociatedHabitID: idPtr(plain.ID),
				Periodicity:       1,
			},
			associated: plain,
			want:       []ViolationKind{KindInvalidAssociation},
		},
		{
			name: "associated habit missing",
			habit: &Habit{
				Action:            "exercise",
				AssociatedHabitID: idPtr(uuid.New()),
				Periodicity:       1,
			},
			want: []ViolationKind{KindInvalidAssociation},
		},
		{
			name: "enjoyable habit with reward",
			habit: &Habit{
				Action:      "take a bath",
				IsEnjoyable: boolPtr(true),
				Reward:      strPtr("cake"),
				Periodicity: 1,
			},
			want: []ViolationKind{KindPleasantHabitConstraint},
		},
		{
			name: "enjoyable habit with associated habit",
			habit: &Habit{
				Action:            "take a bath",
				IsEnjoyable:       boolPtr(true),
				AssociatedHabitID: idPtr(pleasant.ID),
				Periodicity:       1,
			},
			associated: pleasant,
			want:       []ViolationKind{KindPleasantHabitConstraint},
		},
		{
			name: "is_enjoyable explicitly false behaves like unset",
			habit: &Habit{
				Action:      "exercise",
				IsEnjoyable: boolPtr(false),
				Reward:      strPtr("cake"),
				Periodicity: 1,
			},
		},
		{
			name: "time to complete too long",
			habit: &Habit{
				Action:         "run",
				TimeToComplete: intPtr(3),
				Periodicity:    1,
			},
			want: []ViolationKind{KindDurationTooLong},
		},
		{
			name: "time to complete negative",
			habit: &Habit{
				Action:         "run",
				TimeToComplete: intPtr(-5),
				Periodicity:    1,
			},
			want: []ViolationKind{KindNotPositive},
		},
		{
			name: "time to complete zero",
			habit: &Habit{
				Action:         "run",
				TimeToComplete: intPtr(0),
				Periodicity:    1,
			},
			want: []ViolationKind{KindNotPositive},
		},
		{
			name: "deadline in the past",
			habit: &Habit{
				Action:       "run",
				DateDeadline: datePtr(today.AddDate(0, 0, -1)),
				Periodicity:  1,
			},
			want: []ViolationKind{KindDeadlineInPast},
		},
		{
			name: "deadline today is allowed",
			habit: &Habit{
				Action:       "run",
				DateDeadline: datePtr(today.Time),
				Periodicity:  1,
			},
		},
		{
			name: "periodicity too long",
			habit: &Habit{
				Action:      "run",
				Periodicity: 8,
			},
			want: []ViolationKind{KindPeriodicityTooLong},
		},
		{
			name: "periodicity negative",
			habit: &Habit{
				Action:      "run",
				Periodicity: -3,
			},
			want: []ViolationKind{KindNotPositive},
		},
		{
			name: "periodicity zero",
			habit: &Habit{
				Action: "run",
			},
			want: []ViolationKind{KindNotPositive},
		},
		{
			name: "all violations reported together",
			habit: &Habit{
				Action:            "run",
				Reward:            strPtr("cake"),
				AssociatedHabitID: idPtr(plain.ID),
				TimeToComplete:    intPtr(10),
				DateDeadline:      datePtr(today.AddDate(0, 0, -3)),
				Periodicity:       30,
			},
			associated: plain,
			want: []ViolationKind{
				KindConflictingFields,
				KindInvalidAssociation,
				KindDurationTooLong,
				KindDeadlineInPast,
				KindPeriodicityTooLong,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.habit, tt.associated, today)
			if len(got) != len(tt.want) {
				t.Fatalf("want %d violations %v, got %d: %v", len(tt.want), tt.want, len(got), got)
			}
			gotKinds := kinds(got)
			for _, k := range tt.want {
				if gotKinds[k] == 0 {
					t.Errorf("missing violation kind %s in %v", k, got)
				}
			}
			for _, v := range got {
				if v.Message == "" {
					t.Errorf("violation %s has an empty message", v.Kind)
				}
			}
		})
	}
}

func TestValidateEnjoyableWithBoth(t *testing.T) {
	pleasant := enjoyableHabit()
	h := &Habit{
		Action:            "take a bath",
		IsEnjoyable:       boolPtr(true),
		Reward:            strPtr("cake"),
		AssociatedHabitID: idPtr(pleasant.ID),
		Periodicity:       1,
	}

	got := Validate(h, pleasant, util.Today())
	if kinds(got)[KindPleasantHabitConstraint] != 2 {
		t.Errorf("want two pleasant-habit violations, got %v", got)
	}
	if kinds(got)[KindConflictingFields] != 1 {
		t.Errorf("want the reward/association conflict reported as well, got %v", got)
	}
}

func datePtr(t time.Time) *util.Date {
	d := util.DateOf(t)
	return &d
}
