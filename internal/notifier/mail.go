package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/stats"
	"gopkg.in/mail.v2"
)

// Config holds SMTP settings. Mail is disabled unless Host and Username are set.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
	Timeout  time.Duration
}

func (c Config) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Dialer is the part of *mail.Dialer the notifier uses
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// MailNotifier renders HTML emails and sends them over SMTP
type MailNotifier struct {
	cfg    Config
	dialer Dialer
	now    func() time.Time
}

// NewMailNotifier creates a notifier with an SMTP dialer built from cfg
func NewMailNotifier(cfg Config) *MailNotifier {
	var dialer Dialer
	if cfg.Enabled() {
		d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		d.StartTLSPolicy = mail.OpportunisticStartTLS
		if cfg.Timeout > 0 {
			d.Timeout = cfg.Timeout
		}
		dialer = d
	}
	return NewMailNotifierWithDialer(cfg, dialer)
}

// NewMailNotifierWithDialer uses the given dialer. A nil dialer disables sending.
func NewMailNotifierWithDialer(cfg Config, dialer Dialer) *MailNotifier {
	return &MailNotifier{
		cfg:    cfg,
		dialer: dialer,
		now:    time.Now,
	}
}

type reminderRow struct {
	Title    string
	Priority models.TaskPriority
	Status   models.TaskStatus
	DueDate  string
}

func (n *MailNotifier) SendTaskReminder(ctx context.Context, to Recipient, tasks []models.Task) Result {
	rows := make([]reminderRow, len(tasks))
	for i, t := range tasks {
		rows[i] = reminderRow{
			Title:    t.Title,
			Priority: t.Priority,
			Status:   t.Status,
			DueDate:  t.DueDate.Format("Jan 2, 2006"),
		}
	}

	data := map[string]interface{}{
		"Name":   to.Name,
		"Count":  len(tasks),
		"Tasks":  rows,
		"AppURL": n.cfg.AppURL,
	}
	return n.send(ctx, to, SubjectTaskReminder, "reminder", data, "Email sent successfully")
}

func (n *MailNotifier) SendDailyReport(ctx context.Context, to Recipient, report stats.DailyReport) Result {
	data := map[string]interface{}{
		"Name":   to.Name,
		"Date":   n.now().Format("Jan 2, 2006"),
		"Report": report,
		"AppURL": n.cfg.AppURL,
	}
	return n.send(ctx, to, SubjectDailyReport, "daily", data, "Report sent successfully")
}

func (n *MailNotifier) SendWeeklyReport(ctx context.Context, to Recipient, report stats.WeeklyReport) Result {
	data := map[string]interface{}{
		"Name":   to.Name,
		"Date":   n.now().Format("Jan 2, 2006"),
		"Report": report,
		"AppURL": n.cfg.AppURL,
	}
	return n.send(ctx, to, SubjectWeeklyReport, "weekly", data, "Weekly report sent successfully")
}

func (n *MailNotifier) send(ctx context.Context, to Recipient, subject, tmpl string, data interface{}, okMessage string) Result {
	if n.dialer == nil || !n.cfg.Enabled() {
		log.Printf("email service not configured, skipping %q for user %d", subject, to.UserID)
		return Result{Success: false, Message: MessageUnavailable}
	}
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		log.Printf("failed to render %q: %v", subject, err)
		return Result{Success: false, Message: fmt.Sprintf("failed to render email: %v", err)}
	}

	m := mail.NewMessage(mail.SetEncoding(mail.Unencoded))
	m.SetHeader("From", n.cfg.sender())
	m.SetAddressHeader("To", to.Email, to.Name)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := n.dialer.DialAndSend(m); err != nil {
		log.Printf("failed to send %q to user %d: %v", subject, to.UserID, err)
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: okMessage}
}

var templates = template.Must(template.New("mail").Parse(`
{{define "footer"}}
  <a href="{{.AppURL}}/login" style="display: inline-block; padding: 12px 24px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 5px; margin-top: 10px;">View Tasks</a>
  <p style="margin-top: 20px; color: #666; font-size: 12px;">This is an automated message. Please do not reply to this email.</p>
{{end}}

{{define "reminder"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Hello {{.Name}},</h2>
  <p>You have <strong>{{.Count}}</strong> pending task(s) that require your attention:</p>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <thead>
      <tr style="background-color: #4F46E5; color: white;">
        <th style="padding: 10px; border: 1px solid #ddd;">Task</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Priority</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Status</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Due Date</th>
      </tr>
    </thead>
    <tbody>
    {{range .Tasks}}
      <tr>
        <td style="padding: 10px; border: 1px solid #ddd;">{{.Title}}</td>
        <td style="padding: 10px; border: 1px solid #ddd;">{{.Priority}}</td>
        <td style="padding: 10px; border: 1px solid #ddd;">{{.Status}}</td>
        <td style="padding: 10px; border: 1px solid #ddd;">{{.DueDate}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>
  <p>Please log in to the system to update your tasks.</p>
  {{template "footer" .}}
</div>
{{end}}

{{define "daily"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Daily Report - {{.Date}}</h2>
  <p>Hello {{.Name}},</p>
  <p>Here's your daily task summary:</p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <div style="margin-bottom: 15px;"><strong>Total Tasks:</strong> {{.Report.TotalTasks}}</div>
    <div style="margin-bottom: 15px;"><strong>Pending:</strong> <span style="color: #f59e0b;">{{.Report.Pending}}</span></div>
    <div style="margin-bottom: 15px;"><strong>In Progress:</strong> <span style="color: #3b82f6;">{{.Report.InProgress}}</span></div>
    <div style="margin-bottom: 15px;"><strong>Completed:</strong> <span style="color: #10b981;">{{.Report.Completed}}</span></div>
    <div style="margin-bottom: 15px;"><strong>Overdue:</strong> <span style="color: #ef4444;">{{.Report.Overdue}}</span></div>
  </div>
  {{template "footer" .}}
</div>
{{end}}

{{define "weekly"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Weekly Report - Week of {{.Date}}</h2>
  <p>Hello {{.Name}},</p>
  <p>Here's your weekly task summary:</p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <div style="margin-bottom: 15px;"><strong>Total Tasks:</strong> {{.Report.TotalTasks}}</div>
    <div style="margin-bottom: 15px;"><strong>Completed This Week:</strong> <span style="color: #10b981;">{{.Report.CompletedThisWeek}}</span></div>
    <div style="margin-bottom: 15px;"><strong>Pending:</strong> <span style="color: #f59e0b;">{{.Report.Pending}}</span></div>
    <div style="margin-bottom: 15px;"><strong>Total Hours Worked:</strong> {{.Report.TotalHours}} hours</div>
    <div style="margin-bottom: 15px;"><strong>Productivity:</strong> {{.Report.Productivity}}%</div>
  </div>
  {{template "footer" .}}
</div>
{{end}}
`))
