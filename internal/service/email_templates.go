package service

import "fmt"

func verificationEmailTemplate(name, verifyURL, appName string) (string, string) {
	subject := "Verify your email address"
	body := fmt.Sprintf(`Hi %s,

Thanks for signing up for %s! Please verify your email address by clicking this link:
%s

This link expires in 24 hours and can only be used once.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, name, appName, verifyURL, appName)

	return subject, body
}

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your email is verified and your account is active!

Get started: %s

If you have questions, reach out to our support team.

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}
