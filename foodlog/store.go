// store.go - Persists food entries and keeps each user's streak in step

package foodlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"calorie-backend/models"
	"calorie-backend/streak"

	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated is returned before any storage access when no user is attached.
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrValidation      = errors.New("invalid food entry")
	ErrPersistence     = errors.New("food log storage failed")
	errVersionConflict = errors.New("user row changed underneath us")
)

// maxSaveAttempts bounds retries when a concurrent save for the same user wins.
const maxSaveAttempts = 3

// Input is what a client sends to log food after confirming an analysis.
type Input struct {
	FoodName  string           `json:"foodName"`
	Calories  float64          `json:"calories"`
	Nutrients models.Nutrients `json:"nutrients"`
	MealType  models.MealType  `json:"mealType"`
}

// Saved is the stored entry together with the streak it produced.
type Saved struct {
	Entry  models.FoodLog `json:"foodEntry"`
	Streak streak.State   `json:"streak"`
}

type Store struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
	log *slog.Logger
}

func NewStore(db *gorm.DB, loc *time.Location, log *slog.Logger) *Store {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, loc: loc, now: time.Now, log: log}
}

// Location is the zone calendar days are computed in.
func (s *Store) Location() *time.Location { return s.loc }

func (in *Input) normalize() error {
	in.FoodName = strings.TrimSpace(in.FoodName)
	if in.FoodName == "" {
		return fmt.Errorf("%w: foodName is required", ErrValidation)
	}
	if in.Calories < 0 {
		return fmt.Errorf("%w: calories must not be negative", ErrValidation)
	}
	if in.Nutrients.Protein < 0 || in.Nutrients.Carbs < 0 || in.Nutrients.Fat < 0 {
		return fmt.Errorf("%w: nutrients must not be negative", ErrValidation)
	}
	in.MealType = models.MealType(strings.ToLower(strings.TrimSpace(string(in.MealType))))
	if in.MealType == "" {
		in.MealType = models.MealSnack
	}
	if !in.MealType.Valid() {
		return fmt.Errorf("%w: unknown mealType %q", ErrValidation, in.MealType)
	}
	return nil
}

// Save stores one entry for userID and advances the user's streak. Both writes
// commit together or not at all; a concurrent save for the same user causes a
// retry rather than a lost streak update.
func (s *Store) Save(ctx context.Context, userID uint, in Input) (*Saved, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		saved, err := s.saveOnce(ctx, userID, in)
		if err == nil {
			s.log.Info("food entry saved",
				"user_id", userID, "entry_id", saved.Entry.ID, "streak", saved.Streak.Streak)
			return saved, nil
		}
		if !errors.Is(err, errVersionConflict) {
			if errors.Is(err, ErrUnauthenticated) {
				return nil, err
			}
			s.log.Error("food entry save failed", "user_id", userID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		lastErr = err
		s.log.Debug("streak update conflict, retrying", "user_id", userID, "attempt", attempt)
	}
	s.log.Error("food entry save gave up", "user_id", userID, "error", lastErr)
	return nil, fmt.Errorf("%w: %v", ErrPersistence, lastErr)
}

func (s *Store) saveOnce(ctx context.Context, userID uint, in Input) (*Saved, error) {
	var out Saved
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnauthenticated // Token outlived its user
			}
			return fmt.Errorf("load user: %w", err)
		}

		now := s.now().UTC() // Stored in UTC so SQLite's text timestamps sort correctly
		entry := models.FoodLog{
			UserID:    userID,
			FoodName:  in.FoodName,
			Calories:  in.Calories,
			Nutrients: in.Nutrients,
			MealType:  in.MealType,
			CreatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}

		next := streak.Advance(streak.State{Streak: user.Streak, LastLogDate: user.LastLogDate}, now, s.loc)
		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"streak":        next.Streak,
				"last_log_date": next.LastLogDate,
				"version":       user.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("update streak: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errVersionConflict
		}

		out = Saved{Entry: entry, Streak: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListForUser returns every entry of userID, newest first.
func (s *Store) ListForUser(ctx context.Context, userID uint) ([]models.FoodLog, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	entries := []models.FoodLog{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		s.log.Error("list food entries failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return entries, nil
}

// History is ListForUser grouped by calendar day.
func (s *Store) History(ctx context.Context, userID uint) ([]DayGroup, error) {
	entries, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupByDay(entries, s.loc), nil
}

// Today is the dashboard view: today's entries and their totals.
type Today struct {
	Date    string           `json:"date"`
	Entries []models.FoodLog `json:"entries"`
	Totals  Totals           `json:"totals"`
	Streak  int              `json:"streak"`
}

func (s *Store) Today(ctx context.Context, userID uint) (*Today, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	entries := []models.FoodLog{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start.UTC(), end.UTC()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		s.log.Error("list today's entries failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	out := &Today{
		Date:    start.Format(dayLayout),
		Entries: entries,
		Streak:  streak.Current(streak.State{Streak: user.Streak, LastLogDate: user.LastLogDate}, now, s.loc),
	}
	for _, e := range entries {
		out.Totals.add(e)
	}
	return out, nil
}
