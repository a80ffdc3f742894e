// Package notify delivers lifecycle notification emails. Delivery is
// fire-and-forget: the lifecycle mutation has already been persisted by
// the time a notification is dispatched, and a failed send is logged,
// never surfaced to the caller.
package notify

import "github.com/toolshub/api/internal/model"

// Dispatcher decides which template fires for a lifecycle transition.
type Dispatcher interface {
	// NotifyPendingApproval tells the admin inbox a submission is waiting.
	NotifyPendingApproval(tool *model.Tool)
	// NotifyApproved tells the submitter their tool went live.
	NotifyApproved(tool *model.Tool, approver string)
	// NotifyRejected tells the submitter why their tool needs revision.
	NotifyRejected(tool *model.Tool, rejecter, reason string)
	// NotifyUnpublished tells the submitter their tool was taken down.
	NotifyUnpublished(tool *model.Tool, actor string)
	// SendOTP delivers a sign-in code.
	SendOTP(email, code string)
}

// NopDispatcher drops every notification. Used when SMTP is not configured.
type NopDispatcher struct{}

func (NopDispatcher) NotifyPendingApproval(*model.Tool)          {}
func (NopDispatcher) NotifyApproved(*model.Tool, string)         {}
func (NopDispatcher) NotifyRejected(*model.Tool, string, string) {}
func (NopDispatcher) NotifyUnpublished(*model.Tool, string)      {}
func (NopDispatcher) SendOTP(string, string)                     {}
