package model

// Icon is the closed set of glyphs a service card can show.
type Icon string

const (
	IconMegaphone   Icon = "Megaphone"
	IconSearch      Icon = "Search"
	IconPenTool     Icon = "PenTool"
	IconGlobe       Icon = "Globe"
	IconMail        Icon = "Mail"
	IconBarChart    Icon = "BarChart"
	IconTarget      Icon = "Target"
	IconUsers       Icon = "Users"
	IconShoppingBag Icon = "ShoppingBag"
)

// DefaultIcon is shown for services whose icon key is unknown.
const DefaultIcon = IconMegaphone

// Icons lists every known icon in display order.
func Icons() []Icon {
	return []Icon{
		IconMegaphone,
		IconSearch,
		IconPenTool,
		IconGlobe,
		IconMail,
		IconBarChart,
		IconTarget,
		IconUsers,
		IconShoppingBag,
	}
}

// String returns the icon key.
func (i Icon) String() string {
	return string(i)
}

// IsValid reports whether the icon is one of the known variants.
func (i Icon) IsValid() bool {
	switch i {
	case IconMegaphone, IconSearch, IconPenTool, IconGlobe, IconMail,
		IconBarChart, IconTarget, IconUsers, IconShoppingBag:
		return true
	}
	return false
}

// Glyph returns a single-character stand-in used by the terminal and HTML
// renderers.
func (i Icon) Glyph() string {
	switch i {
	case IconMegaphone:
		return "📣"
	case IconSearch:
		return "🔍"
	case IconPenTool:
		return "✒"
	case IconGlobe:
		return "🌐"
	case IconMail:
		return "✉"
	case IconBarChart:
		return "📊"
	case IconTarget:
		return "🎯"
	case IconUsers:
		return "👥"
	case IconShoppingBag:
		return "🛍"
	default:
		return DefaultIcon.Glyph()
	}
}

// ParseIcon resolves an icon key. The second result is false for unknown keys.
func ParseIcon(s string) (Icon, bool) {
	i := Icon(s)
	if !i.IsValid() {
		return "", false
	}
	return i, true
}

// IconOrDefault resolves an icon key, falling back to DefaultIcon.
func IconOrDefault(s string) Icon {
	if i, ok := ParseIcon(s); ok {
		return i
	}
	return DefaultIcon
}
