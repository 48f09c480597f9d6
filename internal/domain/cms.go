package domain

import (
	"context"
	"time"
)

type Page struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"last_updated"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
}

type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Appearance struct {
	Logo           string `json:"logo"`
	Favicon        string `json:"favicon"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	HeroTitle      string `json:"heroTitle"`
	HeroSubtitle   string `json:"heroSubtitle"`
}

// Settings is a singleton: the repository creates the default row on first
// read if none exists.
type Settings struct {
	SocialLinks SocialLinks `json:"socialLinks"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Appearance  Appearance  `json:"appearance"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Appearance: Appearance{
			PrimaryColor:   "#6366f1",
			SecondaryColor: "#a855f7",
			AccentColor:    "#f43f5e",
			HeroTitle:      "Elevate Your Marketplace Experience",
			HeroSubtitle:   "Discover premium apparel, footwear, cutting-edge electronics, and innovative digital solutions from top creators worldwide.",
		},
	}
}

type PageRepository interface {
	ListPages(ctx context.Context) ([]Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*Page, error)
	UpsertPage(ctx context.Context, page *Page) (*Page, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, settings *Settings) (*Settings, error)
}
