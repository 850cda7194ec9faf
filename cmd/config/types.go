package config

import "time"

// DateLayout is the wire/display form for date range filters.
const DateLayout = "2006-01-02"

// User is one selectable identity.
type User struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Title string `yaml:"title,omitempty" toml:"title,omitempty" json:"title,omitempty"`
}

// Model is one selectable inference model.
type Model struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`
}

// Config is the client configuration: where the server lives and which
// users, models, and date range the selection controls offer.
type Config struct {
	ServerURL string  `yaml:"server_url,omitempty" toml:"server_url,omitempty" json:"server_url,omitempty"`
	Users     []User  `yaml:"users,omitempty" toml:"users,omitempty" json:"users,omitempty"`
	Models    []Model `yaml:"models,omitempty" toml:"models,omitempty" json:"models,omitempty"`
	StartDate string  `yaml:"start_date,omitempty" toml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string  `yaml:"end_date,omitempty" toml:"end_date,omitempty" json:"end_date,omitempty"`
}

// DefaultConfig mirrors the product's built-in rosters, used when no config
// file is present.
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8888",
		Users: []User{
			{Name: "Ken", Title: "CEO"},
			{Name: "Jeff", Title: "COO"},
			{Name: "Andrew", Title: "CFO"},
		},
		Models: []Model{
			{Name: "Falcon-40B-Docs", Label: "Falcon-40B (Doc Search)"},
			{Name: "Swiss-Finish-Docs", Label: "Swiss-Finish (Doc Search)"},
			{Name: "GPT-3.5-Turbo-Docs", Label: "GPT-3.5-Turbo (Doc Search)"},
			{Name: "Falcon-40B-Chat", Label: "Falcon-40B (Chat)"},
			{Name: "GPT-3.5-Turbo-Chat", Label: "GPT-3.5-Turbo (Chat)"},
		},
		StartDate: "1990-01-01",
		EndDate:   "2023-01-01",
	}
}

// UserNames returns the roster names in config order.
func (c *Config) UserNames() []string {
	names := make([]string, 0, len(c.Users))
	for _, u := range c.Users {
		names = append(names, u.Name)
	}
	return names
}

// ModelNames returns the roster names in config order.
func (c *Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		names = append(names, m.Name)
	}
	return names
}

// HasUser reports whether name is in the user roster.
func (c *Config) HasUser(name string) bool {
	for _, u := range c.Users {
		if u.Name == name {
			return true
		}
	}
	return false
}

// HasModel reports whether name is in the model roster.
func (c *Config) HasModel(name string) bool {
	for _, m := range c.Models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ParseDate parses a config date, returning the zero time for "".
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}
