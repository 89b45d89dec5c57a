package models

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"nikodex/config"
	"nikodex/db"
	"nikodex/locks"
	"nikodex/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyPick is one row per niko featured since the history was last cleared
type DailyPick struct {
	NikoID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	Niko     *Niko     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ChosenAt time.Time `gorm:"index;not null"`
}

func (DailyPick) TableName() string {
	return "notd"
}

const (
	maxPickAttempts = 3
	pickLockKey     = "nikodex:dailypick"
	pickLockTTL     = 10 * time.Second
	pickLockWait    = 2 * time.Second
)

var (
	nowFunc = time.Now

	// PickLocker serializes selection across server instances
	PickLocker locks.Locker = locks.Noop{}
)

// nextMidnight is the start of the day after t in loc
func nextMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

func latestPick(tx *gorm.DB) (p DailyPick, ok bool, err error) {
	err = tx.Order("chosen_at DESC").Order("niko_id DESC").Limit(1).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, false, nil
	}
	return p, err == nil, err
}

// freshPick returns the current pick if it has not expired yet
func freshPick(now time.Time) (n Niko, refresh time.Time, ok bool, err error) {
	p, found, err := latestPick(db.Instance)
	if err != nil || !found {
		return n, refresh, false, err
	}
	refresh = nextMidnight(p.ChosenAt, config.PickLocation())
	if !now.Before(refresh) {
		return n, refresh, false, nil
	}
	n, err = NikoByID(p.NikoID)
	if errors.Is(err, ErrNotFound) {
		// Deleted after being picked, choose again
		return n, refresh, false, nil
	}
	return n, refresh, err == nil, err
}

// DailyPickCurrent returns today's niko and when it will be replaced.
// The first call after the deadline selects a niko that has not been featured since the last reset.
func DailyPickCurrent(ctx context.Context) (n Niko, refresh time.Time, err error) {
	count, err := NikoCount()
	if err != nil {
		return
	}
	if count == 0 {
		return n, refresh, ErrNoPick
	}
	now := nowFunc()
	n, refresh, ok, err := freshPick(now)
	if err != nil || ok {
		return
	}

	release, lockErr := PickLocker.Acquire(ctx, pickLockKey, pickLockTTL, pickLockWait)
	if lockErr != nil {
		logger.Instance.Warn("selecting daily pick without lock", zap.Error(lockErr))
	} else {
		defer release()
		// Another instance may have picked while we waited
		if n, refresh, ok, err = freshPick(now); err != nil || ok {
			return
		}
	}
	return selectDailyPick(now)
}

func selectDailyPick(now time.Time) (n Niko, refresh time.Time, err error) {
	refresh = nextMidnight(now, config.PickLocation())
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		var ids []uint64
		err = db.Instance.Model(&Niko{}).
			Where("id NOT IN (?)", db.Instance.Model(&DailyPick{}).Select("niko_id")).
			Pluck("id", &ids).Error
		if err != nil {
			return
		}
		if len(ids) == 0 {
			// Every niko has been featured, start a new cycle
			if err = db.Instance.Where("1 = 1").Delete(&DailyPick{}).Error; err != nil {
				return
			}
			continue
		}
		id := ids[rand.IntN(len(ids))]
		err = db.Instance.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&DailyPick{NikoID: id, ChosenAt: now.UTC()}).Error
		if err != nil {
			return
		}
		if n, err = NikoByID(id); errors.Is(err, ErrNotFound) {
			continue
		}
		return
	}

	logger.Instance.Warn("daily pick falling back to a random niko", zap.Int("attempts", maxPickAttempts))
	if n, err = NikoRandom(); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrNoPick
		}
		return
	}
	err = db.Instance.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "niko_id"}},
		DoUpdates: clause.Assignments(map[string]any{"chosen_at": now.UTC()}),
	}).Create(&DailyPick{NikoID: n.ID, ChosenAt: now.UTC()}).Error
	return
}

// RollDailyPick makes sure a pick for the current day exists
func RollDailyPick(ctx context.Context) error {
	n, _, err := DailyPickCurrent(ctx)
	if errors.Is(err, ErrNoPick) {
		return nil
	}
	if err == nil {
		logger.Instance.Info("daily pick", zap.Uint64("niko_id", n.ID), zap.String("name", n.Name))
	}
	return err
}
