// Package templates provides email template components
package templates

import "fmt"

func GetParagraph(text string) string {
	return fmt.Sprintf(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">%s</p>`, text)
}

func GetHeading(text string) string {
	return fmt.Sprintf(`<h1 style="font-family: Helvetica, sans-serif; font-size: 24px; font-weight: bold; margin: 0; margin-bottom: 24px;">%s</h1>`, text)
}

func GetCodeBlock(code string) string {
	return fmt.Sprintf(`<pre style="font-family: monospace; font-size: 13px; background-color: #f4f4f4; border-radius: 4px; padding: 16px; overflow-x: auto; margin: 0; margin-bottom: 16px;">%s</pre>`, code)
}

type EmailLayoutProps struct {
	Content string
}

func GetEmailLayout(props EmailLayoutProps) string {
	return fmt.Sprintf(`<!doctype html>
<html>
  <body style="background-color: #f6f6f6; font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; padding: 0;">
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%%" style="border-collapse: separate; background-color: #f6f6f6;">
      <tr>
        <td>&nbsp;</td>
        <td style="display: block; max-width: 580px; margin: 0 auto; padding: 24px;">
          <div style="background: #ffffff; border-radius: 4px; padding: 32px;">%s</div>
          <p style="color: #999999; font-size: 12px; text-align: center; margin-top: 16px;">Insightly &middot; privacy-first web analytics</p>
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`, props.Content)
}
