package templates

import "fmt"

type WebsiteWelcomeProps struct {
	WebsiteName string
	WebsiteID   string
	Domain      string
}

// GetWebsiteWelcomeEmail builds the email sent after a website is registered.
// It includes the snippet the user pastes into their site.
func GetWebsiteWelcomeEmail(props WebsiteWelcomeProps) string {
	snippet := fmt.Sprintf(`&lt;script defer data-website-id=&quot;%s&quot; data-domain=&quot;%s&quot; src=&quot;https://%s/js/script.js&quot;&gt;&lt;/script&gt;`,
		props.WebsiteID, props.Domain, props.Domain)

	content := GetHeading(fmt.Sprintf("%s is ready to track", props.WebsiteName)) +
		GetParagraph("Your website has been registered. Add the snippet below to the &lt;head&gt; of every page you want to track:") +
		GetCodeBlock(snippet) +
		GetParagraph("Visits show up in your dashboard within a few seconds of the first pageview. No cookies banner needed, no personal data stored.")

	return GetEmailLayout(EmailLayoutProps{Content: content})
}
