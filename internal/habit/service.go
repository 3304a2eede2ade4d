package habit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/d-medvedev/habits-api/internal/auth"
	"github.com/d-medvedev/habits-api/internal/config"
	"github.com/d-medvedev/habits-api/internal/user"
	util "github.com/d-medvedev/habits-api/internal/utils"
)

const defaultPeriodicity = 1

// Scheduler registers recurring reminder jobs for habits. Calls are
// best-effort: failures are logged by the service and never fail the write.
type Scheduler interface {
	ScheduleRecurring(ctx context.Context, habitID uuid.UUID, intervalDays int) error
	Reschedule(ctx context.Context, habitID uuid.UUID, intervalDays int) error
	Unschedule(ctx context.Context, habitID uuid.UUID) error
}

type HabitService interface {
	ListOwn(ctx context.Context, offset, limit int) (*HabitPage, error)
	ListPublic(ctx context.Context, offset, limit int) (*HabitPage, error)
	Create(ctx context.Context, dto CreateHabitDTO) (*Habit, error)
	Retrieve(ctx context.Context, id string) (*Habit, error)
	Update(ctx context.Context, id string, dto UpdateHabitDTO) (*Habit, error)
	Delete(ctx context.Context, id string) error
}

type habitService struct {
	repo      HabitRepository
	userRepo  user.UserRepository
	scheduler Scheduler
	today     func() util.Date
}

func NewService(repo HabitRepository, userRepo user.UserRepository, scheduler Scheduler) HabitService {
	return &habitService{
		repo:      repo,
		userRepo:  userRepo,
		scheduler: scheduler,
		today:     util.Today,
	}
}

func (s *habitService) ListOwn(ctx context.Context, offset, limit int) (*HabitPage, error) {
	log := config.WithContext(ctx)

	actor, err := s.requireActor(ctx)
	if err != nil {
		return nil, err
	}

	var habits []Habit
	var total int64
	if actor.IsElevated() {
		habits, total, err = s.repo.ListAll(offset, limit)
	} else {
		habits, total, err = s.repo.ListActiveByOwner(actor.ID, offset, limit)
	}
	if err != nil {
		log.WithError(err).Error("Failed to list habits")
		return nil, err
	}
	return &HabitPage{Count: total, Habits: habits}, nil
}

func (s *habitService) ListPublic(ctx context.Context, offset, limit int) (*HabitPage, error) {
	log := config.WithContext(ctx)

	habits, total, err := s.repo.ListPublic(offset, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list public habits")
		return nil, err
	}
	return &HabitPage{Count: total, Habits: habits}, nil
}

func (s *habitService) Create(ctx context.Context, dto CreateHabitDTO) (*Habit, error) {
	log := config.WithContext(ctx)

	actor, err := s.requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if d := Decide(actor, nil, OpCreate); !d.Allowed {
		return nil, &ForbiddenError{Reason: d.Reason}
	}

	h := &Habit{
		ID:                uuid.New(),
		OwnerID:           &actor.ID,
		Location:          dto.Location,
		DateDeadline:      dto.DateDeadline,
		TimeDeadline:      dto.TimeDeadline,
		Action:            dto.Action,
		IsEnjoyable:       dto.IsEnjoyable,
		AssociatedHabitID: dto.AssociatedHabit,
		Periodicity:       defaultPeriodicity,
		Reward:            dto.Reward,
		TimeToComplete:    dto.TimeToComplete,
		IsActive:          true,
	}
	if dto.Periodicity != nil {
		h.Periodicity = *dto.Periodicity
	}
	if dto.IsPublic != nil {
		h.IsPublic = *dto.IsPublic
	}

	err = s.repo.Transaction(func(tx HabitRepository) error {
		if err := s.validate(tx, h); err != nil {
			return err
		}
		return tx.Create(h)
	})
	if err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			log.WithError(err).Error("Failed to create habit")
		}
		return nil, err
	}

	if err := s.scheduler.ScheduleRecurring(ctx, h.ID, h.Periodicity); err != nil {
		log.WithError(err).Warnf("Failed to schedule reminder for habit %s", h.ID)
	}

	log.WithField("habit_id", h.ID).Info("Habit created")
	return h, nil
}

func (s *habitService) Retrieve(ctx context.Context, id string) (*Habit, error) {
	log := config.WithContext(ctx)

	actor, err := s.optionalActor(ctx)
	if err != nil {
		return nil, err
	}

	habitID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	h, err := s.repo.FindByID(habitID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to find habit")
		}
		return nil, err
	}

	if d := Decide(actor, h, OpRetrieve); !d.Allowed {
		return nil, &ForbiddenError{Reason: d.Reason}
	}
	return h, nil
}

func (s *habitService) Update(ctx context.Context, id string, dto UpdateHabitDTO) (*Habit, error) {
	log := config.WithContext(ctx)

	actor, err := s.requireActor(ctx)
	if err != nil {
		return nil, err
	}

	habitID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var updated *Habit
	periodicityChanged := false
	deactivated := false
	activated := false

	err = s.repo.Transaction(func(tx HabitRepository) error {
		h, err := tx.FindByID(habitID)
		if err != nil {
			return err
		}

		if d := Decide(actor, h, OpUpdate); !d.Allowed {
			return &ForbiddenError{Reason: d.Reason}
		}

		wasActive := h.IsActive
		oldPeriodicity := h.Periodicity
		applyUpdate(h, dto)

		if err := s.validate(tx, h); err != nil {
			return err
		}
		if err := tx.Update(h); err != nil {
			return err
		}

		periodicityChanged = h.Periodicity != oldPeriodicity
		deactivated = wasActive && !h.IsActive
		activated = !wasActive && h.IsActive
		updated = h
		return nil
	})
	if err != nil {
		var vErr *ValidationError
		var fErr *ForbiddenError
		if !errors.As(err, &vErr) && !errors.As(err, &fErr) && !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to update habit")
		}
		return nil, err
	}

	switch {
	case deactivated:
		if err := s.scheduler.Unschedule(ctx, updated.ID); err != nil {
			log.WithError(err).Warnf("Failed to unschedule reminder for habit %s", updated.ID)
		}
	case activated:
		if err := s.scheduler.ScheduleRecurring(ctx, updated.ID, updated.Periodicity); err != nil {
			log.WithError(err).Warnf("Failed to schedule reminder for habit %s", updated.ID)
		}
	case periodicityChanged:
		if err := s.scheduler.Reschedule(ctx, updated.ID, updated.Periodicity); err != nil {
			log.WithError(err).Warnf("Failed to reschedule reminder for habit %s", updated.ID)
		}
	}

	return updated, nil
}

func (s *habitService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	actor, err := s.requireActor(ctx)
	if err != nil {
		return err
	}

	habitID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	h, err := s.repo.FindByID(habitID)
	if err != nil {
		return err
	}

	if d := Decide(actor, h, OpDelete); !d.Allowed {
		return &ForbiddenError{Reason: d.Reason}
	}

	if actor.IsSuperuser {
		if err := s.repo.Delete(habitID); err != nil {
			log.WithError(err).Error("Failed to delete habit")
			return err
		}
	} else {
		h.IsActive = false
		if err := s.repo.Update(h); err != nil {
			log.WithError(err).Error("Failed to deactivate habit")
			return err
		}
	}

	if err := s.scheduler.Unschedule(ctx, habitID); err != nil {
		log.WithError(err).Warnf("Failed to unschedule reminder for habit %s", habitID)
	}

	log.WithField("habit_id", habitID).Info("Habit deleted")
	return nil
}

// validate resolves the associated habit, runs every rule and adds the cycle
// check. Returns *ValidationError when anything is violated.
func (s *habitService) validate(tx HabitRepository, h *Habit) error {
	var associated *Habit
	if h.AssociatedHabitID != nil {
		var err error
		associated, err = tx.FindByID(*h.AssociatedHabitID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	violations := Validate(h, associated, s.today())

	if associated != nil {
		cyclic, err := s.formsCycle(tx, h, associated)
		if err != nil {
			return err
		}
		if cyclic {
			violations = append(violations, Violation{
				Kind:    KindInvalidAssociation,
				Message: "associated habit links must not form a cycle",
			})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// formsCycle walks the associated-habit chain starting from the candidate's
// reference and reports whether it reaches the candidate again or revisits a
// habit.
func (s *habitService) formsCycle(tx HabitRepository, h *Habit, associated *Habit) (bool, error) {
	visited := map[uuid.UUID]bool{h.ID: true}

	current := associated
	for current != nil {
		if visited[current.ID] {
			return true, nil
		}
		visited[current.ID] = true

		if current.AssociatedHabitID == nil {
			return false, nil
		}
		next, err := tx.FindByID(*current.AssociatedHabitID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		current = next
	}
	return false, nil
}

func applyUpdate(h *Habit, dto UpdateHabitDTO) {
	if dto.Location != nil {
		h.Location = dto.Location
	}
	if dto.DateDeadline != nil {
		h.DateDeadline = dto.DateDeadline
	}
	if dto.TimeDeadline != nil {
		h.TimeDeadline = dto.TimeDeadline
	}
	if dto.Action != nil {
		h.Action = *dto.Action
	}
	if dto.IsEnjoyable != nil {
		h.IsEnjoyable = dto.IsEnjoyable
	}
	if dto.AssociatedHabit != nil {
		h.AssociatedHabitID = dto.AssociatedHabit
	}
	if dto.Periodicity != nil {
		h.Periodicity = *dto.Periodicity
	}
	if dto.Reward != nil {
		h.Reward = dto.Reward
	}
	if dto.TimeToComplete != nil {
		h.TimeToComplete = dto.TimeToComplete
	}
	if dto.IsPublic != nil {
		h.IsPublic = *dto.IsPublic
	}
	if dto.IsActive != nil {
		h.IsActive = *dto.IsActive
	}
}

// requireActor loads the authenticated user or fails with ErrUnauthenticated.
func (s *habitService) requireActor(ctx context.Context) (*user.User, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	actorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return actor, nil
}

// optionalActor resolves the actor when credentials are present and returns
// nil for anonymous requests.
func (s *habitService) optionalActor(ctx context.Context) (*user.User, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, nil
	}
	actorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil
	}
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return actor, nil
}
