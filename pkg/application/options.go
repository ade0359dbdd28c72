package application

// Option is a single entry of an enumerated field's catalog.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

func opts(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Value: pairs[i], Label: pairs[i+1]})
	}
	return out
}

// plain builds a catalog whose values double as labels (checkbox lists).
func plain(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

func yesNo(yes, no string) []Option {
	return opts("yes", yes, "no", no)
}

var (
	CourseOptions = opts(
		"diploma-computer", "Diploma in Computer Engineering",
		"diploma-it", "Diploma in Information Technology",
		"diploma-electronics", "Diploma in Electronics Engineering",
		"btech-computer", "B.Tech Computer Engineering",
		"btech-it", "B.Tech Information Technology",
		"other", "Other",
	)
	CurrentYearOptions = opts(
		"1st", "1st Year",
		"2nd", "2nd Year",
		"3rd", "3rd Year",
		"final", "Final Year",
		"completed", "Completed",
	)
	ProgrammingLanguageOptions = plain("JavaScript", "Python", "PHP", "HTML", "CSS")
	FrameworkOptions           = plain("React", "Angular", "Vue.js", "Node.js", "Django", "Flask")
	DatabaseOptions            = plain("MySQL", "PostgreSQL", "MongoDB", "SQLite", "Oracle", "SQL Server")
	DomainOptions              = opts(
		"web-development", "Web Development",
		"data-science", "Data Science & Analytics",
		"ai-ml", "AI & Machine Learning",
		"cloud-computing", "Cloud Computing",
		"ui-ux", "UI/UX Design",
		"other", "Other",
	)
	IndividualDurationOptions = opts(
		"1-month", "1 Month",
		"2-months", "2 Months",
		"3-months", "3 Months",
		"4-months", "4 Months",
		"6-months", "6 Months",
		"12-months", "12 Months",
		"flexible", "Flexible",
	)
	ModeOptions = opts(
		"onsite", "On-site at Swara Infotech (Sangli)",
		"hybrid", "Hybrid (Partial remote work allowed)",
	)
	ExperienceOptions    = yesNo("Yes", "No")
	HowDidYouHearOptions = opts(
		"website", "Company Website",
		"social-media", "Social Media",
		"college", "College/Institute",
		"friend", "Friend/Referral",
		"job-portal", "Job Portal",
		"other", "Other",
	)
)

var (
	InstituteTypeOptions = opts(
		"government-polytechnic", "Government Polytechnic",
		"private-polytechnic", "Private Polytechnic",
		"engineering-college", "Engineering College",
		"technical-institute", "Technical Institute",
		"university", "University",
		"other", "Other",
	)
	TotalStudentsOptions = opts(
		"10-20", "10-20 Students",
		"21-30", "21-30 Students",
		"31-50", "31-50 Students",
		"51-100", "51-100 Students",
		"100+", "100+ Students",
	)
	InstituteDomainOptions = plain(
		"Machine Learning (ML)",
		"Python Programming",
		"HTML & CSS",
		"JavaScript",
		"Database Management",
		"Web Hosting & Deployment",
	)
	InstituteDurationOptions = opts(
		"1-month", "1 Month",
		"2-months", "2 Months",
		"3-months", "3 Months",
		"4-months", "4 Months",
		"6-months", "6 Months",
	)
	BatchSizeOptions = opts(
		"15-20", "15-20 Students per batch",
		"21-25", "21-25 Students per batch",
		"26-30", "26-30 Students per batch",
		"flexible", "Flexible",
	)
	StudentYearOptions = opts(
		"2nd-year", "2nd Year",
		"3rd-year", "3rd Year",
		"final-year", "Final Year",
		"mixed", "Mixed Years",
	)
	ComputerLabOptions  = yesNo("Yes, we have a computer lab", "No, we don't have a computer lab")
	ConnectivityOptions = opts(
		"high-speed", "High-speed broadband available",
		"moderate", "Moderate speed internet",
		"limited", "Limited internet connectivity",
	)
	ProjectorOptions          = yesNo("Yes, projector available", "No projector available")
	PreviousInternshipOptions = yesNo("Yes", "No")
)

// EnquiryCourseOptions backs the contact form's course interest selector.
var EnquiryCourseOptions = opts(
	"full-stack", "Full Stack Development",
	"mobile-app", "Mobile App Development",
	"data-science", "Data Science",
	"cloud-computing", "Cloud Computing",
	"other", "Other",
)
