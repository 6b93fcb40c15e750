// Progressus - Learning Platform Profile Analytics
// Copyright 2026 Sara A. (saralmv)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/saralmv/progressus

package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/saralmv/progressus/internal/models"
)

// ProfileData is the joined result of the five record queries.
type ProfileData struct {
	User     *models.UserProfile        `json:"user"`
	XP       []models.TransactionRecord `json:"xp"`
	Levels   []models.TransactionRecord `json:"levels"`
	Skills   []models.TransactionRecord `json:"skills"`
	Progress []models.ProgressRecord    `json:"progress"`
}

// LoadProfile fans out the five record queries concurrently and joins
// the results. Each query is read-only and independent, so they run in
// parallel; the join is all-or-nothing: the first failure cancels the
// remaining queries and fails the whole load.
func (f *Fetcher) LoadProfile(ctx context.Context, uid int64) (*ProfileData, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		data ProfileData
		errs [5]error
	)

	run := func(slot int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errs[slot] = err
				cancel()
			}
		}()
	}

	run(0, func() (err error) {
		data.User, err = f.UserProfile(ctx, uid)
		return err
	})
	run(1, func() (err error) {
		data.XP, err = f.XPTransactions(ctx, uid)
		return err
	})
	run(2, func() (err error) {
		data.Levels, err = f.LevelTransactions(ctx, uid)
		return err
	})
	run(3, func() (err error) {
		data.Skills, err = f.SkillTransactions(ctx, uid)
		return err
	})
	run(4, func() (err error) {
		data.Progress, err = f.Progress(ctx, uid)
		return err
	})

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if data.User == nil {
		return nil, fmt.Errorf("unable to fetch user data for id %d", uid)
	}
	return &data, nil
}
