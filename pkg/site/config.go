package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"profile-site/pkg/models"
)

// NavItem is an entry of the top navigation
type NavItem struct {
	Label string `yaml:"label" json:"label"`
	To    string `yaml:"to" json:"to"`
}

// LinkItem is an external link with an optional description and icon
type LinkItem struct {
	Label   string `yaml:"label" json:"label"`
	URL     string `yaml:"url" json:"url"`
	Desc    string `yaml:"desc,omitempty" json:"desc,omitempty"`
	IconURL string `yaml:"iconUrl,omitempty" json:"iconUrl,omitempty"`
}

// Project statuses
const (
	StatusActive  = "active"
	StatusPlanned = "planned"
)

// ProjectItem describes a project card
type ProjectItem struct {
	Name   string     `yaml:"name" json:"name"`
	Desc   string     `yaml:"desc" json:"desc"`
	Tags   []string   `yaml:"tags" json:"tags"`
	Status string     `yaml:"status,omitempty" json:"status,omitempty"`
	Links  []LinkItem `yaml:"links" json:"links"`
}

// PlanItem is a roadmap entry
type PlanItem struct {
	Title string `yaml:"title" json:"title"`
	Desc  string `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Hero is the landing section
type Hero struct {
	Title   string `yaml:"title" json:"title"`
	Tagline string `yaml:"tagline" json:"tagline"`
}

// BackgroundConfig controls the rotating background image
type BackgroundConfig struct {
	Endpoint             string  `yaml:"endpoint" json:"endpoint"`
	RefreshOnRouteChange bool    `yaml:"refreshOnRouteChange" json:"refreshOnRouteChange"`
	RefreshOnceAfterMs   int     `yaml:"refreshOnceAfterMs" json:"refreshOnceAfterMs"`
	BlurPx               float64 `yaml:"blurPx" json:"blurPx"`
	Saturate             float64 `yaml:"saturate" json:"saturate"`
	Contrast             float64 `yaml:"contrast" json:"contrast"`
}

// AboutBlock is a titled paragraph of the about page
type AboutBlock struct {
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// Config is the full site content
type Config struct {
	SiteTitle    string                `yaml:"siteTitle" json:"siteTitle"`
	AvatarURL    string                `yaml:"avatarUrl" json:"avatarUrl"`
	Hero         Hero                  `yaml:"hero" json:"hero"`
	Background   BackgroundConfig      `yaml:"background" json:"background"`
	Nav          []NavItem             `yaml:"nav" json:"nav"`
	QuickLinks   []LinkItem            `yaml:"quickLinks" json:"quickLinks"`
	About        []AboutBlock          `yaml:"about" json:"about"`
	Projects     []ProjectItem         `yaml:"projects" json:"projects"`
	Plans        []PlanItem            `yaml:"plans" json:"plans"`
	Gallery      models.GalleryCatalog `yaml:"gallery" json:"gallery"`
	ContactLinks []LinkItem            `yaml:"contactLinks" json:"contactLinks"`
	Footer       string                `yaml:"footer" json:"footer"`
}

// Default returns the built-in site content
func Default() Config {
	placeholder := "https://api.furry.ist/furry-img"

	return Config{
		SiteTitle: "MingTone",
		AvatarURL: "https://q.qlogo.cn/headimg_dl?dst_uin=2244347713&spec=5",
		Hero: Hero{
			Title:   "Hi, I'm MingTone",
			Tagline: "furry / web / Cloudflare explorer",
		},
		Background: BackgroundConfig{
			Endpoint: placeholder,
			BlurPx:   6,
			Saturate: 1.12,
			Contrast: 1.05,
		},
		Nav: []NavItem{
			{Label: "Home", To: "/"},
			{Label: "About", To: "/about"},
			{Label: "Projects", To: "/projects"},
			{Label: "Gallery", To: "/gallery"},
			{Label: "Contact", To: "/contact"},
		},
		QuickLinks: []LinkItem{
			{Label: "Blog", URL: "https://blog.furry.ist/", Desc: "MingTone's little site"},
			{Label: "FurryAPI", URL: "https://api.furry.ist/", Desc: "API home"},
			{Label: "Background API", URL: placeholder, Desc: "Fluff on demand"},
		},
		About: []AboutBlock{
			{Title: "About me", Body: "I like tinkering with websites and infrastructure."},
			{Title: "What I'm doing", Body: "Chasing dreams."},
		},
		Projects: []ProjectItem{
			{
				Name:   "FurryAPI",
				Desc:   "API services for the furry community",
				Tags:   []string{"API", "Infra"},
				Status: StatusActive,
				Links: []LinkItem{
					{Label: "Website", URL: "https://api.furry.ist/"},
					{Label: "Background API", URL: placeholder},
				},
			},
			{
				Name:   "MingTone's blog",
				Desc:   "A small personal space",
				Tags:   []string{"Web", "Blog"},
				Status: StatusActive,
				Links:  []LinkItem{{Label: "Open", URL: "https://blog.furry.ist/"}},
			},
			{
				Name:   "Community platform",
				Desc:   "Commissions, tickets, chat and meetups in one place.",
				Tags:   []string{"Product", "Community"},
				Status: StatusPlanned,
				Links:  []LinkItem{{Label: "Idea", URL: "https://furryrealm.com/"}},
			},
		},
		Plans: []PlanItem{
			{Title: "Community platform", Desc: "Commissions, tickets, chat and meetups in one place"},
			{Title: "Cloudflare experiments", Desc: "Smoother caching and edge compute"},
			{Title: "Monitoring and stability", Desc: "Clearer status reporting"},
		},
		Gallery: models.GalleryCatalog{
			Items: []models.GalleryItem{
				{Title: "Placeholder 1", Src: placeholder, Group: "All"},
				{Title: "Placeholder 2", Src: placeholder, Group: "All"},
				{Title: "Placeholder 3", Src: placeholder, Group: "All"},
			},
			Groups: []string{"All"},
		},
		ContactLinks: []LinkItem{
			{Label: "Blog", URL: "https://blog.furry.ist/", Desc: "blog.furry.ist"},
			{Label: "API", URL: "https://api.furry.ist/", Desc: "api.furry.ist"},
		},
		Footer: "© {year} MingTone · Furry!",
	}
}

// LoadConfig reads a YAML site file on top of the defaults. A missing file yields the defaults.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read site config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse site config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid site config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the pages rely on
func (c Config) Validate() error {
	if strings.TrimSpace(c.SiteTitle) == "" {
		return errors.New("siteTitle is required")
	}
	for _, n := range c.Nav {
		if !strings.HasPrefix(n.To, "/") {
			return fmt.Errorf("nav entry %q must link to an absolute route", n.Label)
		}
	}
	for _, p := range c.Projects {
		switch p.Status {
		case "", StatusActive, StatusPlanned:
		default:
			return fmt.Errorf("project %q has unknown status %q", p.Name, p.Status)
		}
	}
	return nil
}

// FooterText renders the footer with {year} substituted
func (c Config) FooterText(now time.Time) string {
	return strings.ReplaceAll(c.Footer, "{year}", strconv.Itoa(now.Year()))
}
