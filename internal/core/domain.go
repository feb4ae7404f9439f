package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	FrequencyDaily  FrequencyType = "daily"
	FrequencyCustom FrequencyType = "custom"

	CycleCalendar CycleType = "calendar"
	CyclePayday   CycleType = "payday"

	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"

	// OverallBudget is the budget category that caps total spending.
	OverallBudget = "Overall"

	// CompletionLookbackDays bounds how far back completions are loaded.
	CompletionLookbackDays = 365
)

type (
	FrequencyType string

	CycleType string

	// TransactionKind tells expenses and incomes apart in sync messages.
	TransactionKind string

	Habit struct {
		ID            string        `json:"id"`
		UserID        string        `json:"-"`
		Name          string        `json:"name"`
		Emoji         string        `json:"emoji"`
		FrequencyType FrequencyType `json:"frequency_type"`
		CustomDays    Weekdays      `json:"custom_days,omitempty"`
		PreferredTime string        `json:"preferred_time,omitempty"` // HH:MM
		StartDate     Date          `json:"start_date"`
		IsActive      bool          `json:"is_active"`
		CreatedAt     time.Time     `json:"created_at"`
	}

	HabitCompletion struct {
		ID            string    `json:"id"`
		HabitID       string    `json:"habit_id"`
		Date          Date      `json:"date"`
		IsRetroactive bool      `json:"is_retroactive"`
		CreatedAt     time.Time `json:"created_at"`
	}

	Expense struct {
		ID        string    `json:"id"`
		UserID    string    `json:"-"`
		Amount    Money     `json:"amount"`
		Category  string    `json:"category"`
		Date      Date      `json:"date"`
		Note      string    `json:"note,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	Income struct {
		ID        string       `json:"id"`
		UserID    string       `json:"-"`
		Amount    Money        `json:"amount"`
		Source    IncomeSource `json:"source"`
		Date      Date         `json:"date"`
		Note      string       `json:"note,omitempty"`
		CreatedAt time.Time    `json:"created_at"`
	}

	Budget struct {
		ID       string `json:"id"`
		UserID   string `json:"-"`
		Category string `json:"category"` // expense category or OverallBudget
		Amount   Money  `json:"amount"`
		Month    Date   `json:"month"` // always the first of the month
	}

	// CycleConfig selects how the spending cycle is derived from a date.
	CycleConfig struct {
		Type   CycleType `json:"type"`
		Payday int       `json:"payday"`
	}
)

var (
	ErrInvalidDay           = errors.New("invalid day")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyName            = errors.New("empty name")
	ErrNameTooLong          = errors.New("name too long (max 100 characters)")
	ErrInvalidFrequency     = errors.New("invalid frequency type")
	ErrNoCustomDays         = errors.New("custom frequency requires at least one day")
	ErrInvalidPreferredTime = errors.New("preferred time must be HH:MM")
	ErrEmptyCategory        = errors.New("empty category")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrInvalidSource        = errors.New("invalid income source")
	ErrNoteTooLong          = errors.New("note too long (max 200 characters)")
	ErrInvalidColor         = errors.New("color must be #RRGGBB")
	ErrInvalidCycleType     = errors.New("invalid cycle type")
	ErrInvalidPayday        = errors.New("payday must be between 1 and 28")
	ErrDateBeforeStart      = errors.New("date is before the habit start date")
	ErrDateInFuture         = errors.New("date is in the future")
	ErrNotFound             = errors.New("not found")
)

func (k TransactionKind) IsValid() bool {
	return k == KindExpense || k == KindIncome
}

var preferredTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// DefaultCycleConfig is used whenever no valid preference is stored.
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{Type: CycleCalendar, Payday: 1}
}

func (c CycleConfig) Validate() error {
	switch c.Type {
	case CycleCalendar, CyclePayday:
	default:
		return ErrInvalidCycleType
	}
	if c.Payday < 1 || c.Payday > 28 {
		return ErrInvalidPayday
	}
	return nil
}

func (h Habit) Validate() error {
	name := strings.TrimSpace(h.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > 100 {
		return ErrNameTooLong
	}
	switch h.FrequencyType {
	case FrequencyDaily:
	case FrequencyCustom:
		if len(h.CustomDays) == 0 {
			return ErrNoCustomDays
		}
	default:
		return ErrInvalidFrequency
	}
	if h.PreferredTime != "" && !preferredTimePattern.MatchString(h.PreferredTime) {
		return ErrInvalidPreferredTime
	}
	if err := h.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	return nil
}

// IsScheduledOn reports whether the habit is expected to be done on d.
func (h Habit) IsScheduledOn(d Date) bool {
	if d.Before(h.StartDate) {
		return false
	}
	if h.FrequencyType == FrequencyCustom {
		return h.CustomDays.Contains(d.Weekday())
	}
	return true
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (e Expense) OnDate() Date { return e.Date }

func (e Expense) Value() Money { return e.Amount }

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if !i.Source.IsValid() {
		return ErrInvalidSource
	}
	if len(i.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (i Income) OnDate() Date { return i.Date }

func (i Income) Value() Money { return i.Amount }

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if err := b.Month.Validate(); err != nil {
		return err
	}
	if b.Month.Day() != 1 {
		return ErrInvalidDay
	}
	return nil
}
