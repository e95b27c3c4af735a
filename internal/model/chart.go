package model

// ChartPoint is one month of the performance chart shown beside the hero.
type ChartPoint struct {
	Name        string `json:"name"`
	Reach       int    `json:"reach"`
	Engagement  int    `json:"engagement"`
	Conversions int    `json:"conversions"`
}

// PerformanceChart returns the sample analytics series. It is not editable
// and not part of the persisted document.
func PerformanceChart() []ChartPoint {
	return []ChartPoint{
		{Name: "Jan", Reach: 4000, Engagement: 2400, Conversions: 400},
		{Name: "Feb", Reach: 3000, Engagement: 1398, Conversions: 210},
		{Name: "Mar", Reach: 9800, Engagement: 2000, Conversions: 2290},
		{Name: "Apr", Reach: 3908, Engagement: 2780, Conversions: 2000},
		{Name: "May", Reach: 4800, Engagement: 1890, Conversions: 2181},
		{Name: "Jun", Reach: 3800, Engagement: 2390, Conversions: 2500},
	}
}
