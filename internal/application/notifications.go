package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/pkg/mailer"
	tpl "github.com/oksasatya/go-social-api/pkg/mailer/templates"
)

// Notifier publishes a JSON job onto the notification queue.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifications turns social events into queued email jobs. A nil receiver,
// a nil Pub or Enabled=false turns every method into a no-op.
type Notifications struct {
	Pub     Notifier
	Enabled bool
	AppName string
	AppURL  string
	Logger  *logrus.Logger
}

func displayName(u *entity.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (n *Notifications) publish(ctx context.Context, template string, recipient, actor *entity.User, path, excerpt string) {
	if n == nil || n.Pub == nil || !n.Enabled || recipient.Email == "" {
		return
	}
	data := tpl.ToMap(tpl.NotificationData{
		RecipientName:  displayName(recipient),
		RecipientEmail: recipient.Email,
		ActorName:      displayName(actor),
		ActorUsername:  actor.Username,
		AppName:        n.AppName,
		ActionURL:      strings.TrimRight(n.AppURL, "/") + path,
		Excerpt:        excerpt,
	})
	job := mailer.EmailJob{To: recipient.Email, Template: template, Data: data}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{
			"template":     template,
			"recipient_id": recipient.ID,
		}).Warn("failed to publish notification")
	}
}

// NewFollower tells followee that follower started following them.
func (n *Notifications) NewFollower(ctx context.Context, followee, follower *entity.User) {
	n.publish(ctx, tpl.NewFollower, followee, follower, "/users/"+follower.ID, "")
}

// NewComment tells the post author about a comment left by commenter.
func (n *Notifications) NewComment(ctx context.Context, author, commenter *entity.User, postID, content string) {
	n.publish(ctx, tpl.NewComment, author, commenter, "/posts/"+postID, content)
}
