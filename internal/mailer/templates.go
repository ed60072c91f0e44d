package mailer

import "fmt"

func VerificationEmail(verificationURL string) string {
	return fmt.Sprintf(`
  <html>
    <body>
      <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
        <h2>Welcome!</h2>
        <p>Thank you for signing up. Please verify your email address by clicking the link below:</p>
        <p>
          <a href="%[1]s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; display: inline-block;">Verify your email address</a>
        </p>
        <p>Or copy and paste this link into your browser:</p>
        <p><a href="%[1]s">%[1]s</a></p>
      </div>
    </body>
  </html>`, verificationURL)
}

func ResetPasswordEmail(resetURL string) string {
	return fmt.Sprintf(`
  <html>
    <body>
      <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
        <h2>Password reset</h2>
        <p>You are receiving this email because you (or someone else) requested a password reset. Click the link below to choose a new password:</p>
        <p>
          <a href="%[1]s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; display: inline-block;">Reset password</a>
        </p>
        <p>Or copy and paste this link into your browser:</p>
        <p><a href="%[1]s">%[1]s</a></p>
      </div>
    </body>
  </html>`, resetURL)
}
