package main

import (
	"bytes"
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

func SendMail(recepients []string, subject, body string) error {
	from := viper.GetString("smtp.from_email")
	host := viper.GetString("smtp.host")
	port := viper.GetString("smtp.port")
	username := viper.GetString("smtp.username")
	password := viper.GetString("smtp.password")

	auth := sasl.NewLoginClient(username, password)

	var err error
	for _, recipient := range recepients {
		message := "From: " + from + "\n" +
			"To: " + recipient + "\n" +
			"Subject: " + subject + "\n\n" +
			body

		to := []string{recipient}
		msg := []byte(message)
		reader := bytes.NewReader(msg)
		err = smtp.SendMail(host+":"+port, auth, from, to, reader)
		if err != nil {
			log.Printf("WARN: Failed to send email: %v\n", err)
		}
	}

	return err
}

// NotifySubmission mails the studio inbox about a newly stored submission.
// Best effort: a mail failure never fails the submission itself.
func NotifySubmission(notifyEmail string) func(Submission) {
	return func(sub Submission) {
		if notifyEmail == "" {
			return
		}

		var subject, body string
		switch sub.Kind {
		case KindCustomBooking:
			subject = fmt.Sprintf("New custom design request from %s", sub.Name)
			body = fmt.Sprintf(
				"Name: %s\nEmail: %s\nShoe model: %s\nBudget: %s\n\n%s\n",
				sub.Name, sub.Email, sub.ShoeModel, sub.BudgetRange, sub.DesignDescription)
			if att := sub.AttachmentInfo(); att != nil {
				body += fmt.Sprintf("\nAttachment offered: %s (%d bytes, %s)\n", att.Name, att.Size, att.Mime)
			}
		case KindContactMessage:
			subject = fmt.Sprintf("New contact message from %s", sub.Name)
			body = fmt.Sprintf("Name: %s\nEmail: %s\n\n%s\n", sub.Name, sub.Email, sub.Message)
		default:
			return
		}

		if err := SendMail([]string{notifyEmail}, subject, body); err != nil {
			log.Printf("WARN: submission notification mail failed: %v", err)
		}
	}
}
