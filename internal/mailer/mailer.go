// Package mailer sends notification emails to registrants over SMTP.
// Sending is always best-effort: callers log failures and move on, the
// status mutation that triggered the email has already committed.
package mailer

import (
    "fmt"
    "net/smtp"
    "strconv"

    "github.com/rs/zerolog"

    "github.com/lehoang/visit-registration/internal/config"
)

// Message is one outbound email.
type Message struct {
    To      string
    Subject string
    Body    string
}

// BuildStatusEmail assembles the notification for an approved or
// rejected registration.
func BuildStatusEmail(name, email, date, visitTime, floor, status string) Message {
    when := date
    if visitTime != "" {
        when = date + " " + visitTime
    }
    var subject, body string
    switch status {
    case "approved":
        subject = "Đăng ký của bạn đã được duyệt"
        body = fmt.Sprintf("Chào %s,\n\nĐăng ký lên văn phòng của bạn vào %s (tầng %s) đã được duyệt.\nHẹn gặp bạn!", name, when, floor)
    case "rejected":
        subject = "Đăng ký của bạn không được duyệt"
        body = fmt.Sprintf("Chào %s,\n\nRất tiếc, đăng ký lên văn phòng của bạn vào %s (tầng %s) không được duyệt.\nBạn có thể đăng ký lại vào ngày khác.", name, when, floor)
    default:
        subject = "Cập nhật đăng ký"
        body = fmt.Sprintf("Chào %s,\n\nĐăng ký của bạn vào %s (tầng %s) đã được cập nhật: %s.", name, when, floor, status)
    }
    return Message{To: email, Subject: subject, Body: body}
}

// Render produces the raw SMTP payload for a message sent from the
// given address.
func Render(from string, msg Message) []byte {
    return []byte(fmt.Sprintf(
        "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
        from, msg.To, msg.Subject, msg.Body))
}

// Send delivers one message using the given SMTP configuration.
func Send(log *zerolog.Logger, cfg config.SMTPConfig, msg Message) error {
    if cfg.Host == "" || cfg.Email == "" {
        return fmt.Errorf("smtp not configured")
    }
    addr := cfg.Host + ":" + strconv.Itoa(cfg.Port)
    auth := smtp.PlainAuth("", cfg.Email, cfg.Password, cfg.Host)

    if err := smtp.SendMail(addr, auth, cfg.Email, []string{msg.To}, Render(cfg.Email, msg)); err != nil {
        log.Warn().Str("to", msg.To).Err(err).Msg("send email failed")
        return fmt.Errorf("send email: %w", err)
    }
    log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
    return nil
}
