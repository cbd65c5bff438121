package types

// Branding holds the storefront-platform identity used inside transactional
// emails and provisioning URIs.
type Branding struct {
	BrandName    string `json:"brand_name" yaml:"brand_name"`
	BaseURL      string `json:"base_url" yaml:"base_url"`
	SupportEmail string `json:"support_email" yaml:"support_email"`
}

type SmtpConfig struct {
	Host               string `json:"host" yaml:"host"`
	Port               string `json:"port" yaml:"port"`
	Connections        int    `json:"connections" yaml:"connections"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Username           string `json:"username" yaml:"username"`
	Password           string `json:"password" yaml:"password"`
	SendTimeout        int    `json:"send_timeout" yaml:"send_timeout"`
	From               string `json:"from" yaml:"from"`
	ReplyTo            string `json:"reply_to" yaml:"reply_to"`
}
