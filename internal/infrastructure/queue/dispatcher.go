package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	sendTimeout    = 15 * time.Second
)

type mailKind int

const (
	mailVerification mailKind = iota
	mailPasswordReset
)

type mailJob struct {
	kind  mailKind
	to    string
	name  string
	value string // verification code or reset token
}

// MailDispatcher decouples request handling from SMTP latency. Jobs are
// routed to a fixed set of workers by consistent hashing on the recipient,
// so mails to the same address keep their order (a resent code is delivered
// after the code it replaces).
type MailDispatcher struct {
	workers []chan mailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers
// wrapping the given synchronous mailer. If numWorkers <= 0, defaultWorkers
// is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan mailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// SendVerificationCode enqueues a verification mail; it never blocks the
// caller on relay latency.
func (d *MailDispatcher) SendVerificationCode(_ context.Context, to, name, code string) error {
	d.enqueue(mailJob{kind: mailVerification, to: to, name: name, value: code})
	return nil
}

// SendPasswordReset enqueues a password-reset mail.
func (d *MailDispatcher) SendPasswordReset(_ context.Context, to, name, token string) error {
	d.enqueue(mailJob{kind: mailPasswordReset, to: to, name: name, value: token})
	return nil
}

func (d *MailDispatcher) enqueue(job mailJob) {
	d.workers[d.shardIndex(job.to)] <- job
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan mailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			var err error
			switch job.kind {
			case mailVerification:
				err = d.mailer.SendVerificationCode(sendCtx, job.to, job.name, job.value)
			case mailPasswordReset:
				err = d.mailer.SendPasswordReset(sendCtx, job.to, job.name, job.value)
			}
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("recipient", job.to).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}
