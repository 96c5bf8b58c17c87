package config

import "os"

func SheetID() string {
	return os.Getenv("GSHEET_ID")
}

func SiteURL() string {
	if v := os.Getenv("SITE_URL"); v != "" {
		return v
	}
	return "https://adoptyourolive.com"
}

func InfoEmail() string {
	return os.Getenv("INFO_EMAIL")
}

func AdminEmail() string {
	return os.Getenv("EMAIL_ADMIN")
}

func SenderEmail() string {
	if v := os.Getenv("BREVO_SENDER_EMAIL"); v != "" {
		return v
	}
	return os.Getenv("INFO_EMAIL")
}

func SenderName() string {
	if v := os.Getenv("BREVO_SENDER_NAME"); v != "" {
		return v
	}
	return "Adopt Your Olive"
}

func ResendSenderEmail() string {
	if v := os.Getenv("EMAIL_MITTENTE"); v != "" {
		return v
	}
	return SenderEmail()
}

func ResendAudienceID() string {
	return os.Getenv("RESEND_AUDIENCE_ID")
}

func BrevoClientListID() string {
	return os.Getenv("BREVO_LIST_CLIENTI")
}

func BrevoOrderTemplateID() string {
	return os.Getenv("BREVO_TMPL_ORDER_CONFIRM_ID")
}

func OpsAlertsTopicArn() string {
	return os.Getenv("OPS_ALERTS_TOPIC_ARN")
}

func AnalyticsBucket() string {
	return os.Getenv("ANALYTICS_BUCKET")
}

func AdminAPIToken() string {
	return os.Getenv("ADMIN_API_TOKEN")
}
