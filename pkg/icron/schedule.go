package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type TriggerInfo struct {
	Expression string
	Next       time.Time

	TimeUntilNext time.Duration
}

func (i TriggerInfo) String() string {
	return fmt.Sprintf("%q next at %s (in %s)",
		i.Expression, i.Next.Format(time.RFC3339), i.TimeUntilNext.Round(time.Second))
}

// GetTriggerInfo describes when a standard 5-field cron expression next
// fires after refTime.
func GetTriggerInfo(cronExpr string, refTime time.Time) (*TriggerInfo, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	next := schedule.Next(refTime)
	return &TriggerInfo{
		Expression:    cronExpr,
		Next:          next,
		TimeUntilNext: next.Sub(refTime),
	}, nil
}
