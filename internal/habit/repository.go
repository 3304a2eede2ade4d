package habit

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HabitRepository interface {
	Transaction(fn func(HabitRepository) error) error
	Create(h *Habit) error
	FindByID(id uuid.UUID) (*Habit, error)
	Update(h *Habit) error
	Delete(id uuid.UUID) error
	ListActiveByOwner(ownerID uuid.UUID, offset, limit int) ([]Habit, int64, error)
	ListAll(offset, limit int) ([]Habit, int64, error)
	ListPublic(offset, limit int) ([]Habit, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) HabitRepository {
	return &repository{db: db}
}

func (r *repository) Transaction(fn func(HabitRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) Create(h *Habit) error {
	return r.db.Create(h).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Habit, error) {
	var h Habit
	if err := r.db.First(&h, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *repository) Update(h *Habit) error {
	return r.db.Save(h).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Habit{}, "id = ?", id).Error
}

func (r *repository) ListActiveByOwner(ownerID uuid.UUID, offset, limit int) ([]Habit, int64, error) {
	return r.list(r.db.Model(&Habit{}).Where("owner_id = ? AND is_active = ?", ownerID, true), offset, limit)
}

func (r *repository) ListAll(offset, limit int) ([]Habit, int64, error) {
	return r.list(r.db.Model(&Habit{}), offset, limit)
}

func (r *repository) ListPublic(offset, limit int) ([]Habit, int64, error) {
	return r.list(r.db.Model(&Habit{}).Where("is_public = ?", true), offset, limit)
}

// list applies stable insertion ordering and offset pagination on top of the
// already-filtered query.
func (r *repository) list(q *gorm.DB, offset, limit int) ([]Habit, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var habits []Habit
	if err := q.
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&habits).Error; err != nil {
		return nil, 0, err
	}
	return habits, total, nil
}
