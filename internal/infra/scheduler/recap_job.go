package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const runTimeout = 30 * time.Second

type Recap interface {
	Execute(ctx context.Context) (string, error)
}

type Sender interface {
	SendText(ctx context.Context, chat, text string) error
}

// RecapJob posts the team recap to a chat on a cron schedule. Schedules use the
// six-field form with seconds, e.g. "0 0 18 * * 1-5".
type RecapJob struct {
	cron   *cron.Cron
	recap  Recap
	sender Sender
	chat   string
	log    logrus.FieldLogger
}

func NewRecapJob(recap Recap, sender Sender, chat string, logger logrus.FieldLogger) *RecapJob {
	return &RecapJob{
		cron:   cron.New(cron.WithSeconds()),
		recap:  recap,
		sender: sender,
		chat:   chat,
		log:    logger,
	}
}

func (j *RecapJob) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}
	j.cron.Start()
	j.log.Infof("Event ID: RECAP_SCHEDULED, Description: team recap scheduled at %q for chat %s", schedule, j.chat)
	return nil
}

// Stop waits for a running recap to finish.
func (j *RecapJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Infof("Event ID: RECAP_STOPPED, Description: team recap scheduler stopped")
}

// RunNow builds the recap and sends it immediately.
func (j *RecapJob) RunNow(ctx context.Context) error {
	text, err := j.recap.Execute(ctx)
	if err != nil {
		return fmt.Errorf("build recap: %w", err)
	}
	if text == "" {
		return nil
	}
	if err := j.sender.SendText(ctx, j.chat, text); err != nil {
		return fmt.Errorf("send recap: %w", err)
	}
	return nil
}

func (j *RecapJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	j.log.Infof("Event ID: RECAP_RUN, Description: sending scheduled team recap")
	if err := j.RunNow(ctx); err != nil {
		j.log.Errorf("Event ID: RECAP_FAILED, Description: %v", err)
	}
}
