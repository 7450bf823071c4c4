package scheduler

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/platform/config"

	"github.com/hibiken/asynq"
)

const maxRetry = 5

type Client struct {
	client *asynq.Client
	queue  string
}

// NotificationScheduler enqueues notification work for the worker.
type NotificationScheduler interface {
	EnqueueLeadAssigned(ctx context.Context, payload LeadAssignedPayload) error
	EnqueueDealClosed(ctx context.Context, payload DealClosedPayload) error
	ScheduleDueReminder(ctx context.Context, payload DueReminderPayload, runAt time.Time) error
}

var _ NotificationScheduler = (*Client)(nil)

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueLeadAssigned(ctx context.Context, payload LeadAssignedPayload) error {
	task, err := NewLeadAssignedTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EnqueueDealClosed(ctx context.Context, payload DealClosedPayload) error {
	task, err := NewDealClosedTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

// ScheduleDueReminder enqueues a reminder for runAt. The same task and
// schedule are enqueued at most once while pending.
func (c *Client) ScheduleDueReminder(ctx context.Context, payload DueReminderPayload, runAt time.Time) error {
	task, err := NewDueReminderTask(payload)
	if err != nil {
		return err
	}
	err = c.enqueue(ctx, task, asynq.ProcessAt(runAt), asynq.TaskID(payload.DedupeKey()))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	if c == nil || c.client == nil {
		return nil
	}
	opts = append(opts, asynq.Queue(c.queue), asynq.MaxRetry(maxRetry))
	_, err := c.client.EnqueueContext(ctx, task, opts...)
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}
