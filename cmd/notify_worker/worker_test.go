package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-api/pkg/mailer"
	mailtpl "github.com/oksasatya/go-social-api/pkg/mailer/templates"
)

type recordingSender struct {
	to, subject string
	err         error
}

func (r *recordingSender) Send(_ context.Context, to, subject, _, _ string) error {
	r.to, r.subject = to, subject
	return r.err
}

func jobBody(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestProcessRendersTemplate(t *testing.T) {
	s := &recordingSender{}
	body := jobBody(t, mailer.EmailJob{
		To:       "bob@example.com",
		Template: mailtpl.NewFollower,
		Data:     mailtpl.ToMap(mailtpl.NotificationData{ActorUsername: "alice", AppName: "social"}),
	})

	result, err := process(context.Background(), s, body)
	require.NoError(t, err)
	assert.Equal(t, ack, result)
	assert.Equal(t, "bob@example.com", s.to)
	assert.Contains(t, s.subject, "alice")
}

func TestProcessDropsBadJobs(t *testing.T) {
	s := &recordingSender{}

	result, err := process(context.Background(), s, []byte("{not json"))
	assert.Error(t, err)
	assert.Equal(t, drop, result)

	result, err = process(context.Background(), s, jobBody(t, mailer.EmailJob{To: "a@b.co", Template: "unknown"}))
	assert.Error(t, err)
	assert.Equal(t, drop, result)

	result, _ = process(context.Background(), s, jobBody(t, mailer.EmailJob{Subject: "hi"}))
	assert.Equal(t, drop, result)
	assert.Empty(t, s.to)
}

func TestProcessRequeuesOnSendFailure(t *testing.T) {
	s := &recordingSender{err: errors.New("mailgun down")}
	result, err := process(context.Background(), s, jobBody(t, mailer.EmailJob{To: "a@b.co", Subject: "hi", Text: "x"}))
	assert.Error(t, err)
	assert.Equal(t, requeue, result)
}
