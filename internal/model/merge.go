package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// partialDocument mirrors SiteDocument with every group optional so a stored
// subset can be told apart from an empty value.
type partialDocument struct {
	Hero         *partialHero  `json:"hero"`
	About        *partialAbout `json:"about"`
	Services     []Service     `json:"services"`
	Projects     []Project     `json:"projects"`
	Testimonials []Testimonial `json:"testimonials"`
}

type partialHero struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
}

type partialAbout struct {
	Text       string   `json:"text"`
	Image      string   `json:"image"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	USP        string   `json:"usp"`
	Stats      []Stat   `json:"stats"`
}

// Merge overlays a stored (possibly partial) document on the built-in
// defaults. Hero and about merge field by field; an absent or empty string
// keeps the default. Lists replace the defaults only when present and
// non-empty. Empty input and JSON null yield the defaults.
func Merge(raw []byte) (*SiteDocument, error) {
	doc := Default()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return doc, nil
	}

	var p partialDocument
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("decode site document: %w", err)
	}

	if h := p.Hero; h != nil {
		overlay(&doc.Hero.Name, h.Name)
		overlay(&doc.Hero.Title, h.Title)
		overlay(&doc.Hero.Description, h.Description)
		overlay(&doc.Hero.CTA, h.CTA)
	}
	if a := p.About; a != nil {
		overlay(&doc.About.Text, a.Text)
		overlay(&doc.About.Image, a.Image)
		overlay(&doc.About.Experience, a.Experience)
		overlay(&doc.About.USP, a.USP)
		if len(a.Skills) > 0 {
			doc.About.Skills = a.Skills
		}
		if len(a.Stats) > 0 {
			doc.About.Stats = a.Stats
		}
	}
	if len(p.Services) > 0 {
		doc.Services = p.Services
	}
	if len(p.Projects) > 0 {
		doc.Projects = p.Projects
	}
	if len(p.Testimonials) > 0 {
		doc.Testimonials = p.Testimonials
	}
	return doc, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
