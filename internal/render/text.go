package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alfredjeanlab/marketpro/internal/model"
)

// Text writes a terminal summary of doc, one block per section.
func Text(w io.Writer, doc *model.SiteDocument) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n%s\n[%s]\n", doc.Hero.Name, doc.Hero.Title, doc.Hero.Description, doc.Hero.CTA)

	b.WriteString("\nStats\n")
	for _, s := range doc.About.Stats {
		fmt.Fprintf(&b, "  %-8s %s\n", s.Value, s.Label)
	}

	b.WriteString("\nServices\n")
	for _, s := range doc.Services {
		fmt.Fprintf(&b, "  %s %s (%s)\n      %s\n", s.ServiceIcon().Glyph(), s.Title, s.ID, s.Description)
	}

	b.WriteString("\nProjects\n")
	for _, p := range doc.Projects {
		fmt.Fprintf(&b, "  %s [%s] %s: %s\n", p.ID, p.Category, p.Title, p.Result)
	}

	b.WriteString("\nTestimonials\n")
	for _, t := range doc.Testimonials {
		fmt.Fprintf(&b, "  %s %s, %s\n", t.ID, t.Name, t.Role)
	}

	fmt.Fprintf(&b, "\nAbout\n  %s\n  %s\n  Skills: %s\n", doc.About.Experience, doc.About.Text, strings.Join(doc.About.Skills, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

// Testimonial writes one testimonial as shown by the carousel, with its
// position among n.
func Testimonial(w io.Writer, t model.Testimonial, index, n int) error {
	_, err := fmt.Fprintf(w, "(%d/%d) \"%s\"\n        %s, %s\n", index+1, n, t.Feedback, t.Name, t.Role)
	return err
}
