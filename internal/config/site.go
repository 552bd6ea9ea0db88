package config

// SiteConfig is the persisted site settings document, stored as one
// JSON option row and edited through the admin dashboard. Shapes here
// are what the public shell renders: top bar, footer, SEO text, the
// assistant provider, and media storage.
type SiteConfig struct {
	Site      SiteOptions      `json:"site"`
	TopBar    TopBarConfig     `json:"top_bar"`
	Footer    FooterConfig     `json:"footer"`
	Assistant AssistantOptions `json:"assistant"`
	Media     MediaOptions     `json:"media"`
	Auth      AuthOptions      `json:"auth"`
}

// SiteOptions is the global identity block.
type SiteOptions struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Logo        string `json:"logo"`
	URL         string `json:"url"`
}

// NavLink is one labelled link in the top bar or footer.
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// TopBarConfig configures the strip above the navigation.
type TopBarConfig struct {
	Motto string    `json:"motto"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`
	Links []NavLink `json:"links"`
}

// FooterConfig configures the site footer.
type FooterConfig struct {
	About     string    `json:"about"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Links     []NavLink `json:"links"`
	Copyright string    `json:"copyright"`
}

// AIProvider configures one chat-completion backend.
type AIProvider struct {
	Type    string `json:"type"` // openai | anthropic | openai-compatible
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model"`
}

// AssistantOptions configures the chat assistant proxy.
type AssistantOptions struct {
	Enable       bool       `json:"enable"`
	Provider     AIProvider `json:"provider"`
	SystemPrompt string     `json:"system_prompt,omitempty"`
	MaxTokens    int        `json:"max_tokens,omitempty"`
}

// S3Options configures object storage for media uploads.
type S3Options struct {
	Enable          bool   `json:"enable"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint,omitempty"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	CustomDomain    string `json:"custom_domain,omitempty"`
	PathStyleAccess bool   `json:"path_style_access,omitempty"`
}

// MediaOptions configures upload handling.
type MediaOptions struct {
	MaxUploadMB int       `json:"max_upload_mb"`
	S3          S3Options `json:"s3"`
}

// AuthOptions gates the public auth surfaces.
type AuthOptions struct {
	AllowRegister bool `json:"allow_register"`
}

// DefaultSiteConfig returns the settings used before an admin has
// saved anything.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Site: SiteOptions{
			Title:       "School Board",
			Description: "Official information portal",
		},
		TopBar: TopBarConfig{Links: []NavLink{}},
		Footer: FooterConfig{Links: []NavLink{}},
		Assistant: AssistantOptions{
			Provider:  AIProvider{Type: "openai", Model: "gpt-4o-mini"},
			MaxTokens: 512,
		},
		Media: MediaOptions{MaxUploadMB: 10},
		Auth:  AuthOptions{AllowRegister: false},
	}
}
