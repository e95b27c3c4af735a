package model

// defaultDocument is the copy shipped with the site. Never hand it out
// directly; Default returns a deep copy.
var defaultDocument = SiteDocument{
	Hero: Hero{
		Name:        "SathiEliza",
		Title:       "Digital Marketing Expert & Growth Hacker",
		Description: "I help businesses thrive in the digital age. Using data-driven strategies and creative campaigns to connect your brand with the right audience.",
		CTA:         "Get Free Consultation",
	},
	About: About{
		Text:       "Over the past 5 years, I've worked with diverse clients globally. My primary focus is to maximize your Return on Investment (ROI) through performance-driven marketing strategies that actually move the needle.",
		Image:      "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=800&q=80",
		Experience: "5+ Years of Digital Marketing Excellence",
		Skills:     []string{"Google Ads", "Facebook Meta Ads", "SEO Optimization", "Content Strategy", "Email Automation", "Data Analytics"},
		USP:        "I don't just run ads; I build high-converting ecosystems that turn clicks into loyal customers using advanced psychological triggers and data-backed insights.",
		Stats: []Stat{
			{Label: "Successful Projects", Value: "150+"},
			{Label: "Ad Spend Managed", Value: "$500k+"},
			{Label: "Satisfied Clients", Value: "100+"},
			{Label: "ROI Growth", Value: "300%"},
		},
	},
	Services: []Service{
		{ID: "1", Title: "Digital Marketing", Description: "Comprehensive 360° digital strategies to build brand awareness and capture market share.", Icon: string(IconGlobe)},
		{ID: "2", Title: "Email Marketing", Description: "Automated, high-converting email funnels that nurture leads and drive consistent revenue.", Icon: string(IconMail)},
		{ID: "3", Title: "Analytics", Description: "In-depth data tracking and visualization to uncover growth opportunities and optimize spend.", Icon: string(IconBarChart)},
		{ID: "4", Title: "Lead Generation", Description: "Fueling your sales pipeline with high-quality, verified leads ready to convert.", Icon: string(IconTarget)},
		{ID: "5", Title: "Social Media Marketing (SMM)", Description: "Building community and driving engagement across Facebook, Instagram, LinkedIn, and more.", Icon: string(IconUsers)},
		{ID: "6", Title: "Ecommerce Growth Marketing", Description: "Specialized scaling strategies for online stores to maximize ROAS and customer LTV.", Icon: string(IconShoppingBag)},
	},
	Projects: []Project{
		{ID: "p1", Title: "E-commerce Growth Campaign", Category: "E-commerce", Image: "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=800&q=80", Result: "5X Revenue Growth"},
		{ID: "p2", Title: "B2B Lead Generation", Category: "Lead Gen", Image: "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800&q=80", Result: "1000+ Verified Leads"},
		{ID: "p3", Title: "Real Estate PPC Strategy", Category: "Google Ads", Image: "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=800&q=80", Result: "40% Lower Cost Per Lead"},
		{ID: "p4", Title: "Fashion Brand SMM", Category: "Social Media", Image: "https://images.unsplash.com/photo-1523381210434-271e8be1f52b?w=800&q=80", Result: "250% Engagement Boost"},
	},
	Testimonials: []Testimonial{
		{ID: "t1", Name: "Sarah Jenkins", Role: "CEO, GlowBeauty", Feedback: "Tanvir completely transformed our online presence. Our conversion rate tripled within three months of working with him! His approach to data is truly unique.", Avatar: "https://i.pravatar.cc/150?u=sarah"},
		{ID: "t2", Name: "Mark Thompson", Role: "Marketing Director, TechFlow", Feedback: "The level of insight provided through the analytics dashboards was a game-changer for our quarterly planning. We finally know where our money goes.", Avatar: "https://i.pravatar.cc/150?u=mark"},
		{ID: "t3", Name: "Elena Rodriguez", Role: "Founder, EcoStore", Feedback: "Strategic, professional, and results-oriented. The lead generation campaign surpassed all our expectations. Tanvir is a true partner in our growth.", Avatar: "https://i.pravatar.cc/150?u=elena"},
	},
}

// Default returns a fresh copy of the built-in site document.
func Default() *SiteDocument {
	return defaultDocument.Clone()
}
