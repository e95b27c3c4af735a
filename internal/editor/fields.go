package editor

import (
	"fmt"
	"slices"

	"github.com/alfredjeanlab/marketpro/internal/idgen"
	"github.com/alfredjeanlab/marketpro/internal/model"
)

// HeroFields, AboutFields and the per-list field names accepted by the Set
// and Update methods.
var (
	HeroFields        = []string{"name", "title", "description", "cta"}
	AboutFields       = []string{"text", "image", "experience", "usp"}
	ServiceFields     = []string{"title", "description", "icon"}
	ProjectFields     = []string{"title", "category", "image", "result"}
	TestimonialFields = []string{"name", "role", "feedback", "avatar"}
)

// SetHero sets one hero field.
func (e *Editor) SetHero(field, value string) error {
	return e.edit(func(d *model.SiteDocument) error {
		h := &d.Hero
		switch field {
		case "name":
			h.Name = value
		case "title":
			h.Title = value
		case "description":
			h.Description = value
		case "cta":
			h.CTA = value
		default:
			return fmt.Errorf("%w: hero.%s", ErrUnknownField, field)
		}
		return nil
	})
}

// SetAbout sets one scalar about field.
func (e *Editor) SetAbout(field, value string) error {
	return e.edit(func(d *model.SiteDocument) error {
		a := &d.About
		switch field {
		case "text":
			a.Text = value
		case "image":
			a.Image = value
		case "experience":
			a.Experience = value
		case "usp":
			a.USP = value
		default:
			return fmt.Errorf("%w: about.%s", ErrUnknownField, field)
		}
		return nil
	})
}

// SetSkills replaces the skill list.
func (e *Editor) SetSkills(skills []string) {
	_ = e.edit(func(d *model.SiteDocument) error {
		d.About.Skills = slices.Clone(skills)
		return nil
	})
}

// SetStat updates the stat with the given label, appending it if absent.
func (e *Editor) SetStat(label, value string) {
	_ = e.edit(func(d *model.SiteDocument) error {
		for i := range d.About.Stats {
			if d.About.Stats[i].Label == label {
				d.About.Stats[i].Value = value
				return nil
			}
		}
		d.About.Stats = append(d.About.Stats, model.Stat{Label: label, Value: value})
		return nil
	})
}

// --- Services ---

// UpdateService sets one field of the service with the given id.
func (e *Editor) UpdateService(id, field, value string) error {
	return e.edit(func(d *model.SiteDocument) error {
		i := slices.IndexFunc(d.Services, func(s model.Service) bool { return s.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: service %q", ErrUnknownID, id)
		}
		s := &d.Services[i]
		switch field {
		case "title":
			s.Title = value
		case "description":
			s.Description = value
		case "icon":
			icon, ok := model.ParseIcon(value)
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidIcon, value)
			}
			s.Icon = icon.String()
		default:
			return fmt.Errorf("%w: service.%s", ErrUnknownField, field)
		}
		return nil
	})
}

// AddService appends a service under a fresh id, which it returns. An
// unknown or empty icon is replaced by the default icon.
func (e *Editor) AddService(s model.Service) (string, error) {
	var id string
	err := e.edit(func(d *model.SiteDocument) error {
		var err error
		id, err = idgen.Unique(idgen.ServicePrefix, func(c string) bool {
			return slices.ContainsFunc(d.Services, func(s model.Service) bool { return s.ID == c })
		})
		if err != nil {
			return err
		}
		s.ID = id
		s.Icon = model.IconOrDefault(s.Icon).String()
		d.Services = append(d.Services, s)
		return nil
	})
	return id, err
}

// RemoveService deletes the service with the given id.
func (e *Editor) RemoveService(id string) error {
	return e.edit(func(d *model.SiteDocument) error {
		n := len(d.Services)
		d.Services = slices.DeleteFunc(d.Services, func(s model.Service) bool { return s.ID == id })
		if len(d.Services) == n {
			return fmt.Errorf("%w: service %q", ErrUnknownID, id)
		}
		return nil
	})
}

// --- Projects ---

// UpdateProject sets one field of the project with the given id.
func (e *Editor) UpdateProject(id, field, value string) error {
	return e.edit(func(d *model.SiteDocument) error {
		i := slices.IndexFunc(d.Projects, func(p model.Project) bool { return p.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: project %q", ErrUnknownID, id)
		}
		p := &d.Projects[i]
		switch field {
		case "title":
			p.Title = value
		case "category":
			p.Category = value
		case "image":
			p.Image = value
		case "result":
			p.Result = value
		default:
			return fmt.Errorf("%w: project.%s", ErrUnknownField, field)
		}
		return nil
	})
}

// AddProject appends a project under a fresh id, which it returns.
func (e *Editor) AddProject(p model.Project) (string, error) {
	var id string
	err := e.edit(func(d *model.SiteDocument) error {
		var err error
		id, err = idgen.Unique(idgen.ProjectPrefix, func(c string) bool {
			return slices.ContainsFunc(d.Projects, func(p model.Project) bool { return p.ID == c })
		})
		if err != nil {
			return err
		}
		p.ID = id
		d.Projects = append(d.Projects, p)
		return nil
	})
	return id, err
}

// RemoveProject deletes the project with the given id.
func (e *Editor) RemoveProject(id string) error {
	return e.edit(func(d *model.SiteDocument) error {
		n := len(d.Projects)
		d.Projects = slices.DeleteFunc(d.Projects, func(p model.Project) bool { return p.ID == id })
		if len(d.Projects) == n {
			return fmt.Errorf("%w: project %q", ErrUnknownID, id)
		}
		return nil
	})
}

// --- Testimonials ---

// UpdateTestimonial sets one field of the testimonial with the given id.
func (e *Editor) UpdateTestimonial(id, field, value string) error {
	return e.edit(func(d *model.SiteDocument) error {
		i := slices.IndexFunc(d.Testimonials, func(t model.Testimonial) bool { return t.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: testimonial %q", ErrUnknownID, id)
		}
		t := &d.Testimonials[i]
		switch field {
		case "name":
			t.Name = value
		case "role":
			t.Role = value
		case "feedback":
			t.Feedback = value
		case "avatar":
			t.Avatar = value
		default:
			return fmt.Errorf("%w: testimonial.%s", ErrUnknownField, field)
		}
		return nil
	})
}

// AddTestimonial appends a testimonial under a fresh id, which it returns.
func (e *Editor) AddTestimonial(t model.Testimonial) (string, error) {
	var id string
	err := e.edit(func(d *model.SiteDocument) error {
		var err error
		id, err = idgen.Unique(idgen.TestimonialPrefix, func(c string) bool {
			return slices.ContainsFunc(d.Testimonials, func(t model.Testimonial) bool { return t.ID == c })
		})
		if err != nil {
			return err
		}
		t.ID = id
		d.Testimonials = append(d.Testimonials, t)
		return nil
	})
	return id, err
}

// RemoveTestimonial deletes the testimonial with the given id.
func (e *Editor) RemoveTestimonial(id string) error {
	return e.edit(func(d *model.SiteDocument) error {
		n := len(d.Testimonials)
		d.Testimonials = slices.DeleteFunc(d.Testimonials, func(t model.Testimonial) bool { return t.ID == id })
		if len(d.Testimonials) == n {
			return fmt.Errorf("%w: testimonial %q", ErrUnknownID, id)
		}
		return nil
	})
}
