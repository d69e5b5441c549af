package mail

import "fmt"

// Templates are deliberately plain HTML: a number of association members
// read mail in clients that strip styling, so every message also carries a
// text alternative built alongside it.

type message struct {
	Subject string
	HTML    string
	Text    string
}

func otpMessage(name, code string) message {
	return message{
		Subject: "Your IYFFA verification code",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Your one-time verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
<p>The code is valid for 30 minutes. If you did not try to sign in, you can ignore this message.</p>`, name, code),
		Text: fmt.Sprintf("Hello %s,\n\nYour one-time verification code is: %s\n\nThe code is valid for 30 minutes. If you did not try to sign in, you can ignore this message.\n", name, code),
	}
}

func passwordResetMessage(name, code string) message {
	return message{
		Subject: "Reset your IYFFA password",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>We received a request to reset your password. Use this code to choose a new one:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
<p>The code expires in 30 minutes. If you did not request a reset, no action is needed.</p>`, name, code),
		Text: fmt.Sprintf("Hello %s,\n\nWe received a request to reset your password. Use this code to choose a new one: %s\n\nThe code expires in 30 minutes. If you did not request a reset, no action is needed.\n", name, code),
	}
}

func passwordSetupMessage(name, code string) message {
	return message{
		Subject: "Welcome to IYFFA - set up your password",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Your membership has been approved. Use this code to set your password and activate your access:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
<p>The code expires in 30 minutes.</p>`, name, code),
		Text: fmt.Sprintf("Hello %s,\n\nYour membership has been approved. Use this code to set your password and activate your access: %s\n\nThe code expires in 30 minutes.\n", name, code),
	}
}

func twoFactorSetupMessage(name, code string) message {
	return message{
		Subject: "Confirm two-factor authentication",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Enter this code to finish enabling two-factor authentication on your account:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>`, name, code),
		Text: fmt.Sprintf("Hello %s,\n\nEnter this code to finish enabling two-factor authentication on your account: %s\n", name, code),
	}
}

func accountApprovedMessage(name string) message {
	return message{
		Subject: "Your IYFFA membership is active",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Your account has been approved by an administrator. Welcome aboard!</p>`, name),
		Text: fmt.Sprintf("Hello %s,\n\nYour account has been approved by an administrator. Welcome aboard!\n", name),
	}
}

func projectNoticeMessage(title, authorName string, budget float64) message {
	return message{
		Subject: fmt.Sprintf("New project proposal: %s", title),
		HTML: fmt.Sprintf(`<p>A new project proposal was submitted.</p>
<p><strong>%s</strong> by %s, requested budget %.2f CHF.</p>
<p>Review it in the administration dashboard.</p>`, title, authorName, budget),
		Text: fmt.Sprintf("A new project proposal was submitted.\n\n%q by %s, requested budget %.2f CHF.\n\nReview it in the administration dashboard.\n", title, authorName, budget),
	}
}

func paymentConfirmationMessage(name string, amount float64, currency, kind string) message {
	return message{
		Subject: "Thank you for your payment",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>We have received your payment of <strong>%.2f %s</strong> (%s).</p>
<p>Thank you for supporting IYFFA.</p>`, name, amount, currency, kind),
		Text: fmt.Sprintf("Hello %s,\n\nWe have received your payment of %.2f %s (%s).\n\nThank you for supporting IYFFA.\n", name, amount, currency, kind),
	}
}
