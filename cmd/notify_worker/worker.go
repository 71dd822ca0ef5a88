package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oksasatya/go-social-api/pkg/mailer"
	mailtpl "github.com/oksasatya/go-social-api/pkg/mailer/templates"
)

type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

const sendTimeout = 15 * time.Second

// process renders and sends one queued job. Undecodable or unrenderable jobs
// are dropped; send failures are retried through the queue.
func process(ctx context.Context, s Sender, body []byte) (outcome, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return drop, fmt.Errorf("decode job: %w", err)
	}
	if job.To == "" {
		return drop, fmt.Errorf("job has no recipient")
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return drop, err
		}
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.Send(c, job.To, subject, text, html); err != nil {
		return requeue, fmt.Errorf("send: %w", err)
	}
	return ack, nil
}
