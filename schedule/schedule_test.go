package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/stretchr/testify/assert"
)

func Test_NextRun_daily(t *testing.T) {
	cron := cronexpr.MustParse("30 23 * * *")
	loc := time.Local
	timestamp := time.Date(2019, 4, 25, 8, 42, 55, 0, loc)

	assert.Equal(t, time.Date(2019, 4, 25, 23, 30, 0, 0, loc), NextRun(cron, timestamp))
}

func Test_NextRun_skipsWeekend(t *testing.T) {
	cron := cronexpr.MustParse("30 23 * * MON-FRI")
	loc := time.Local
	timestamp := time.Date(2019, 4, 26, 23, 42, 55, 0, loc)

	assert.Equal(t, time.Date(2019, 4, 29, 23, 30, 0, 0, loc), NextRun(cron, timestamp))
}

func Test_NextRun_periodicField(t *testing.T) {
	cron := cronexpr.MustParse("5-55/15 * * * *")
	loc := time.Local
	timestamp := time.Date(2019, 4, 29, 8, 42, 55, 0, loc)

	assert.Equal(t, time.Date(2019, 4, 29, 8, 50, 0, 0, loc), NextRun(cron, timestamp))
}

func Test_NextRun_withoutExpression(t *testing.T) {
	assert.True(t, NextRun(nil, time.Now()).IsZero())
}

func Test_Every_runsUntilCancelled(t *testing.T) {
	assertion := assert.New(t)
	cron := cronexpr.MustParse("* * * * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		Every(ctx, cron, func() {
			if calls.Add(1) == 2 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("schedule did not stop after cancellation")
	}

	assertion.Equal(int32(2), calls.Load())
}

func Test_Every_stopsWhenExpressionIsExhausted(t *testing.T) {
	cron := cronexpr.MustParse("0 0 1 1 * 2001")
	done := make(chan struct{})

	go func() {
		Every(context.Background(), cron, func() {
			t.Error("must not run for expressions in the past")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("schedule did not stop")
	}
}
