// Package notify dispatches outbound notification events over the message
// broker. The request path only publishes; actual delivery is a consumer's
// problem, so a broker outage never fails the flow that queued the mail.
package notify

// mailQueueName is the durable queue carrying password-reset mails.
const mailQueueName = "mail.password_reset"

// PasswordResetMail is published whenever a reset code is issued. It holds
// everything the mail worker needs to render and send the message without
// querying the primary database.
type PasswordResetMail struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	RequestedAt string `json:"requested_at"`
}
