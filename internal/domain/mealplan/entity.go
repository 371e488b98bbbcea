// Package mealplan contains the meal plan aggregate and the rolling
// ingredient inventory used while assembling multi-day plans.
package mealplan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// GenerationStatus tracks the lifecycle of a plan build.
// Transitions: pending -> in_progress -> completed | failed. Terminal
// states never transition again.
type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusInProgress GenerationStatus = "in_progress"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid meal plan status transition")
	ErrMealPlanNotFound  = errors.New("meal plan not found")
	ErrInvalidDuration   = errors.New("plan duration must be between 1 and 4 weeks")
)

// Slot is a meal position within a day requiring one recipe
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnack     Slot = "snack"
)

// DefaultSlots are the slots filled unless snacks are requested
var DefaultSlots = []Slot{SlotBreakfast, SlotLunch, SlotDinner}

// DayPlan assigns one recipe per slot for a single date
type DayPlan struct {
	Date      time.Time
	Meals     map[Slot]uuid.UUID
	Leftovers []Leftover
}

// Leftover records an ingredient carried forward from a day's cooking
type Leftover struct {
	Ingredient   string
	Amount       float64
	Unit         string
	ExpiresInDay int
	FromRecipeID uuid.UUID
}

// MealPlan is the aggregate owned by the assembler during construction.
// It accumulates in memory and is persisted only on completion.
type MealPlan struct {
	id        uuid.UUID
	userID    string
	startDate time.Time
	endDate   time.Time
	days      []DayPlan
	status    GenerationStatus
	createdAt time.Time
}

// New creates a pending meal plan covering weeks*7 days from startDate
func New(userID string, startDate time.Time, weeks int) (*MealPlan, error) {
	if weeks < 1 || weeks > 4 {
		return nil, ErrInvalidDuration
	}
	return &MealPlan{
		id:        uuid.New(),
		userID:    userID,
		startDate: startDate,
		endDate:   startDate.AddDate(0, 0, weeks*7),
		status:    StatusPending,
		createdAt: time.Now(),
	}, nil
}

// Reconstruct rebuilds a MealPlan from persisted state
func Reconstruct(id uuid.UUID, userID string, startDate, endDate time.Time, days []DayPlan, status GenerationStatus, createdAt time.Time) *MealPlan {
	return &MealPlan{
		id:        id,
		userID:    userID,
		startDate: startDate,
		endDate:   endDate,
		days:      days,
		status:    status,
		createdAt: createdAt,
	}
}

// ID returns the plan identifier
func (p *MealPlan) ID() uuid.UUID { return p.id }

// UserID returns the owning identity
func (p *MealPlan) UserID() string { return p.userID }

// StartDate returns the first day of the plan
func (p *MealPlan) StartDate() time.Time { return p.startDate }

// EndDate returns the day after the last planned day
func (p *MealPlan) EndDate() time.Time { return p.endDate }

// Days returns the accumulated day plans
func (p *MealPlan) Days() []DayPlan { return p.days }

// Status returns the plan's generation status
func (p *MealPlan) Status() GenerationStatus { return p.status }

// CreatedAt returns when the plan was requested
func (p *MealPlan) CreatedAt() time.Time { return p.createdAt }

// DayCount returns the number of days the plan spans. Dates are
// normalized to midnight so DST offsets and intra-day start times
// cannot skew the count.
func (p *MealPlan) DayCount() int {
	start := midnightUTC(p.startDate)
	end := midnightUTC(p.endDate)
	return int(end.Sub(start).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Begin marks the plan as being assembled
func (p *MealPlan) Begin() error {
	if p.status != StatusPending {
		return ErrInvalidTransition
	}
	p.status = StatusInProgress
	return nil
}

// AppendDay adds a completed day to the plan under construction
func (p *MealPlan) AppendDay(day DayPlan) error {
	if p.status != StatusInProgress {
		return ErrInvalidTransition
	}
	p.days = append(p.days, day)
	return nil
}

// Complete marks the plan as fully assembled
func (p *MealPlan) Complete() error {
	if p.status != StatusInProgress {
		return ErrInvalidTransition
	}
	p.status = StatusCompleted
	return nil
}

// Fail marks the plan as failed; accumulated days are kept in memory for
// logging but must never be persisted
func (p *MealPlan) Fail() error {
	if p.status != StatusInProgress && p.status != StatusPending {
		return ErrInvalidTransition
	}
	p.status = StatusFailed
	return nil
}
