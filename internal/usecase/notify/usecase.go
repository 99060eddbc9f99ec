package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainApp "resale-backend/internal/domain/application"
	domainNote "resale-backend/internal/domain/notification"
	domainGroup "resale-backend/internal/domain/propertygroup"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/domain/workflow"
	"resale-backend/pkg/id"
)

const lockKind = "email"

const approvalSubject = "Your resale certificate is ready"

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Locker coalesces concurrent send requests per target.
type Locker interface {
	Acquire(ctx context.Context, kind, applicationID, groupID string) (bool, error)
	Release(ctx context.Context, kind, applicationID, groupID string) error
}

type Usecase struct {
	tx     uow.UnitOfWork
	sender Sender
	lock   Locker
	log    *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, sender Sender, lock Locker, log *zap.Logger) *Usecase {
	return &Usecase{tx: tx, sender: sender, lock: lock, log: log}
}

// SendApproval emails the requester that the certificate is ready and records
// the notification. A recorded application_approved row is what flips the
// email task to completed, so the write and the send sit in one transaction.
func (u *Usecase) SendApproval(ctx context.Context, applicationID string) (*NotificationDTO, error) {
	ok, err := u.lock.Acquire(ctx, lockKind, applicationID, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: approval email for %s", ErrOperationInFlight, applicationID)
	}
	defer func() {
		if err := u.lock.Release(context.WithoutCancel(ctx), lockKind, applicationID, ""); err != nil {
			u.log.Warn("email lock release failed", zap.String("application_id", applicationID), zap.Error(err))
		}
	}()

	var dto NotificationDTO
	err = u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		forms, err := r.Forms.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		notes, err := r.Notifications.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		groups, err := r.PropertyGroups.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}

		snap := workflow.NewSnapshot(a, forms, notes, groups)
		variant, _ := workflow.ResolveVariant(snap)
		tasks := workflow.ResolveTasks(snap, variant)
		if act := workflow.CanSendEmail(tasks); !act.Allowed {
			return fmt.Errorf("%w: %s", ErrNotAllowed, act.Reason)
		}
		if a.RequesterEmail == "" {
			return ErrNoRecipient
		}

		body := approvalBody(a.RequesterName, a.PDFURL)
		if err := u.sender.Send(ctx, a.RequesterEmail, approvalSubject, body); err != nil {
			return fmt.Errorf("send approval email: %w", err)
		}

		now := time.Now().UTC()
		n := &domainNote.Notification{
			NotificationID:   id.NewID32(),
			ApplicationID:    a.ID,
			NotificationType: domainNote.TypeApplicationApproved,
			Recipient:        a.RequesterEmail,
			Subject:          approvalSubject,
			SentAt:           now,
		}
		if err := r.Notifications.Create(ctx, n); err != nil {
			return err
		}
		a.EmailCompletedAt = &now
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}

		dto = NotificationDTO{
			NotificationID: n.NotificationID,
			ApplicationID:  a.ApplicationID,
			Recipient:      n.Recipient,
			Subject:        n.Subject,
			SentAt:         now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("approval email sent",
		zap.String("application_id", dto.ApplicationID),
		zap.String("recipient", dto.Recipient))
	return &dto, nil
}

// SendApprovalForGroup emails the per-property certificate link on a
// multi-community application. A delivery failure moves the group's
// email_status to failed so the dashboard can offer a retry.
func (u *Usecase) SendApprovalForGroup(ctx context.Context, applicationID, groupID string) (*NotificationDTO, error) {
	ok, err := u.lock.Acquire(ctx, lockKind, applicationID, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: approval email for group %s", ErrOperationInFlight, groupID)
	}
	defer func() {
		if err := u.lock.Release(context.WithoutCancel(ctx), lockKind, applicationID, groupID); err != nil {
			u.log.Warn("email lock release failed", zap.String("group_id", groupID), zap.Error(err))
		}
	}()

	var dto NotificationDTO
	err = u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		g, err := r.PropertyGroups.GetByGroupID(ctx, groupID)
		if err != nil {
			return err
		}
		if g.ApplicationID != a.ID {
			return domainGroup.ErrNotFound
		}

		snap := workflow.NewSnapshot(a, nil, nil, []domainGroup.PropertyGroup{*g})
		if act := workflow.CanSendEmailForGroup(snap.Groups[0]); !act.Allowed {
			return fmt.Errorf("%w: %s", ErrNotAllowed, act.Reason)
		}
		if a.RequesterEmail == "" {
			return ErrNoRecipient
		}

		now := time.Now().UTC()
		subject := fmt.Sprintf("%s: certificate for %s", approvalSubject, g.PropertyName)
		if err := u.sender.Send(ctx, a.RequesterEmail, subject, approvalBody(a.RequesterName, g.PDFURL)); err != nil {
			if g.EmailStatus.CanTransition(domainGroup.StatusFailed) {
				g.EmailStatus = domainGroup.StatusFailed
				if serr := r.PropertyGroups.Save(ctx, g); serr != nil {
					return serr
				}
			}
			return fmt.Errorf("send group approval email: %w", err)
		}

		n := &domainNote.Notification{
			NotificationID:   id.NewID32(),
			ApplicationID:    a.ID,
			PropertyGroupID:  &g.ID,
			NotificationType: domainNote.TypeApplicationApproved,
			Recipient:        a.RequesterEmail,
			Subject:          subject,
			SentAt:           now,
		}
		if err := r.Notifications.Create(ctx, n); err != nil {
			return err
		}
		g.EmailStatus = domainGroup.StatusCompleted
		g.EmailCompletedAt = &now
		if err := r.PropertyGroups.Save(ctx, g); err != nil {
			return err
		}

		dto = NotificationDTO{
			NotificationID: n.NotificationID,
			ApplicationID:  a.ApplicationID,
			GroupID:        g.GroupID,
			Recipient:      n.Recipient,
			Subject:        n.Subject,
			SentAt:         now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("group approval email sent",
		zap.String("application_id", dto.ApplicationID),
		zap.String("group_id", dto.GroupID),
		zap.String("recipient", dto.Recipient))
	return &dto, nil
}

func approvalBody(name, pdfURL string) string {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	return fmt.Sprintf(
		"<p>%s,</p><p>Your resale certificate has been approved and is ready to download.</p><p><a href=%q>Download certificate</a></p>",
		greeting, pdfURL)
}
