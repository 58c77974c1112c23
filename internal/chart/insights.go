package chart

// Insight is a titled block of narrative text.
type Insight struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// DashboardTitle heads every rendering of the dashboard.
const DashboardTitle = "WomenMatters: Analyzing Global Issue"

// Overview introduces the dashboard.
const Overview = "This dashboard analyzes global survey data on attitudes that justify violence against women. " +
	"Explore how responses vary by country, gender, education, and other demographics."

// Conclusion closes the dashboard.
const Conclusion = "This analysis of global attitudes towards violence against women reveals significant demographic, regional, and temporal patterns. " +
	"Continued monitoring and targeted efforts are essential to reduce justification rates and foster safer environments for women worldwide."

var keyInsights = []Insight{
	{Title: "Demographic Patterns", Text: "Higher justification rates are observed in certain age groups and education levels, indicating the need for targeted awareness campaigns."},
	{Title: "Regional Differences", Text: "Some countries and regions show significantly higher rates, highlighting cultural and societal influences on attitudes toward violence."},
	{Title: "Gender Gap", Text: "Gender-based analysis reveals differences in justification rates, emphasizing the importance of gender-sensitive interventions."},
	{Title: "Time Trends", Text: "Trends over years show gradual changes, suggesting the impact of policy, education, and advocacy efforts."},
}

// KeyInsights returns the closing insight blocks in display order.
func KeyInsights() []Insight {
	return append([]Insight(nil), keyInsights...)
}
