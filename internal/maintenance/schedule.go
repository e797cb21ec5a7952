package maintenance

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// StartDaily runs job every day at localTime ("HH:MM") in tzName until ctx
// is done. An unknown zone falls back to UTC. Runs never overlap: the next
// run is scheduled after the current one returns.
//
//	maintenance.StartDaily(ctx, "snapshot", "03:00", "Asia/Tbilisi", job)
func StartDaily(ctx context.Context, name, localTime, tzName string, job func(context.Context)) error {
	h, m, err := parseClock(localTime)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("[%s] unknown timezone %q, using UTC", name, tzName)
		loc = time.UTC
	}

	go func() {
		for {
			next := nextRun(time.Now().In(loc), h, m)
			log.Printf("[%s] next run at %s", name, next.Format(time.RFC3339))
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				job(ctx)
			}
		}
	}()
	return nil
}

func parseClock(s string) (h, m int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time %q: want HH:MM", s)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time %q: want HH:MM", s)
	}
	return h, m, nil
}

// nextRun is the first h:m strictly after now, in now's location.
func nextRun(now time.Time, h, m int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, h, m, 0, 0, now.Location())
	}
	return next
}
