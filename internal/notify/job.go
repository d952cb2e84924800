package notify

import (
	"context"
	"time"
)

const (
	SendMailJobName = "send_mail"
	sendMailTries   = 3
	sendMailBackoff = 30 * time.Second
)

// SendMailJob delivers one message from the queue
type SendMailJob struct {
	Message Message
	mailer  Mailer
}

func NewSendMailJob(mailer Mailer, msg Message) *SendMailJob {
	return &SendMailJob{Message: msg, mailer: mailer}
}

func (j *SendMailJob) Name() string {
	return SendMailJobName
}

func (j *SendMailJob) Handle(ctx context.Context) error {
	return j.mailer.Send(ctx, j.Message)
}

func (j *SendMailJob) Tries() int {
	return sendMailTries
}

func (j *SendMailJob) Backoff() time.Duration {
	return sendMailBackoff
}
