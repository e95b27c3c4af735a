// Package model defines the site document: every piece of editable copy and
// media reference rendered on the marketing site.
package model

// SiteDocument is the single aggregate record of all editable site text.
type SiteDocument struct {
	Hero         Hero          `json:"hero"`
	About        About         `json:"about"`
	Services     []Service     `json:"services"`
	Projects     []Project     `json:"projects"`
	Testimonials []Testimonial `json:"testimonials"`
}

// Hero is the landing section at the top of the page.
type Hero struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
}

// About describes the person behind the agency.
type About struct {
	Text       string   `json:"text"`
	Image      string   `json:"image"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	USP        string   `json:"usp"`
	Stats      []Stat   `json:"stats"`
}

// Stat is a headline number shown next to the hero.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Service is one offering in the services grid.
type Service struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Project is a portfolio case study.
type Project struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Result   string `json:"result"`
}

// Testimonial is a client quote shown in the carousel.
type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Feedback string `json:"feedback"`
	Avatar   string `json:"avatar"`
}

// Clone returns a deep copy of the document.
func (d *SiteDocument) Clone() *SiteDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.About.Skills = append([]string(nil), d.About.Skills...)
	c.About.Stats = append([]Stat(nil), d.About.Stats...)
	c.Services = append([]Service(nil), d.Services...)
	c.Projects = append([]Project(nil), d.Projects...)
	c.Testimonials = append([]Testimonial(nil), d.Testimonials...)
	return &c
}

// ServiceIcon returns the resolved icon for a service, falling back to the
// default icon for unknown keys.
func (s Service) ServiceIcon() Icon {
	return IconOrDefault(s.Icon)
}
