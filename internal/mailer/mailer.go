package mailer

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/models"
)

// Mailer sends account statements over SMTP
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates a mailer from SMTP configuration
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendStatement emails a statement summary to the given address
func (m *Mailer) SendStatement(to string, family models.Family, statement models.Statement) error {
	if m.cfg.Username == "" {
		return fmt.Errorf("smtp is not configured")
	}

	port, err := strconv.Atoi(m.cfg.Port)
	if err != nil {
		return fmt.Errorf("invalid smtp port %q: %w", m.cfg.Port, err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.Username, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Account Statement %s", statement.StatementNumber))
	msg.SetBody("text/html", statementBody(family, statement))

	dialer := gomail.NewDialer(m.cfg.Host, port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}

func statementBody(family models.Family, statement models.Statement) string {
	return fmt.Sprintf(`<html><body>
<h2>Account Statement %s</h2>
<p>Family: %s</p>
<p>Period: %s to %s</p>
<table border="1" cellpadding="4">
<tr><td>Opening Balance</td><td>%s</td></tr>
<tr><td>Income</td><td>%s</td></tr>
<tr><td>Withdrawals</td><td>%s</td></tr>
<tr><td>Event Payouts</td><td>%s</td></tr>
<tr><td>Closing Balance</td><td>%s</td></tr>
</table>
</body></html>`,
		statement.StatementNumber,
		family.Name,
		statement.FromDate.Format("2006-01-02"),
		statement.ToDate.Format("2006-01-02"),
		statement.OpeningBalance.StringFixed(2),
		statement.Income.StringFixed(2),
		statement.Withdrawals.StringFixed(2),
		statement.Expenses.StringFixed(2),
		statement.ClosingBalance.StringFixed(2),
	)
}
