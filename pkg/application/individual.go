package application

// Individual is the application filed by a single student.
type Individual struct {
	// Personal information.
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`

	// Education.
	CollegeName string `json:"collegeName"`
	Course      string `json:"course"`
	CurrentYear string `json:"currentYear"`
	CGPA        string `json:"cgpa"`
	PassingYear string `json:"passingYear"`

	// Technical skills.
	ProgrammingLanguages []string `json:"programmingLanguages"`
	Frameworks           []string `json:"frameworks"`
	Databases            []string `json:"databases"`
	OtherSkills          string   `json:"otherSkills"`

	// Internship preferences.
	PreferredDomain    string `json:"preferredDomain"`
	InternshipDuration string `json:"internshipDuration"`
	StartDate          string `json:"startDate"`
	InternshipMode     string `json:"internshipMode"`

	// Experience and projects.
	HasExperience     string `json:"hasExperience"`
	ExperienceDetails string `json:"experienceDetails"`
	ProjectDetails    string `json:"projectDetails"`

	// Final details.
	Resume        *Attachment `json:"resume"`
	CoverLetter   string      `json:"coverLetter"`
	HowDidYouHear string      `json:"howDidYouHear"`
	Expectations  string      `json:"expectations"`

	AgreeToTerms          bool `json:"agreeToTerms"`
	AgreeToDataProcessing bool `json:"agreeToDataProcessing"`
}

// NewIndividual returns an empty individual application.
func NewIndividual() *Individual {
	return &Individual{
		ProgrammingLanguages: []string{},
		Frameworks:           []string{},
		Databases:            []string{},
	}
}

func (*Individual) Variant() Variant { return VariantIndividual }

func (a *Individual) Field(name string) (Value, bool) { return getField(a, name) }

func (a *Individual) SetField(name string, v Value) error { return setField(a, name, v) }

func (a *Individual) Clone() Record {
	out := *a
	out.ProgrammingLanguages = append([]string{}, a.ProgrammingLanguages...)
	out.Frameworks = append([]string{}, a.Frameworks...)
	out.Databases = append([]string{}, a.Databases...)
	out.Resume = a.Resume.clone()
	return &out
}

func (a *Individual) slot(name string) (slot, bool) {
	switch name {
	case "firstName":
		return textSlot(&a.FirstName), true
	case "lastName":
		return textSlot(&a.LastName), true
	case "email":
		return textSlot(&a.Email), true
	case "phone":
		return textSlot(&a.Phone), true
	case "dateOfBirth":
		return textSlot(&a.DateOfBirth), true
	case "address":
		return textSlot(&a.Address), true
	case "city":
		return textSlot(&a.City), true
	case "state":
		return textSlot(&a.State), true
	case "pincode":
		return textSlot(&a.Pincode), true
	case "collegeName":
		return textSlot(&a.CollegeName), true
	case "course":
		return choiceSlot(&a.Course), true
	case "currentYear":
		return choiceSlot(&a.CurrentYear), true
	case "cgpa":
		return textSlot(&a.CGPA), true
	case "passingYear":
		return textSlot(&a.PassingYear), true
	case "programmingLanguages":
		return setSlot(&a.ProgrammingLanguages), true
	case "frameworks":
		return setSlot(&a.Frameworks), true
	case "databases":
		return setSlot(&a.Databases), true
	case "otherSkills":
		return textSlot(&a.OtherSkills), true
	case "preferredDomain":
		return choiceSlot(&a.PreferredDomain), true
	case "internshipDuration":
		return choiceSlot(&a.InternshipDuration), true
	case "startDate":
		return textSlot(&a.StartDate), true
	case "internshipMode":
		return choiceSlot(&a.InternshipMode), true
	case "hasExperience":
		return choiceSlot(&a.HasExperience), true
	case "experienceDetails":
		return textSlot(&a.ExperienceDetails), true
	case "projectDetails":
		return textSlot(&a.ProjectDetails), true
	case "resume":
		return fileSlot(&a.Resume), true
	case "coverLetter":
		return textSlot(&a.CoverLetter), true
	case "howDidYouHear":
		return choiceSlot(&a.HowDidYouHear), true
	case "expectations":
		return textSlot(&a.Expectations), true
	case "agreeToTerms":
		return flagSlot(&a.AgreeToTerms), true
	case "agreeToDataProcessing":
		return flagSlot(&a.AgreeToDataProcessing), true
	}
	return slot{}, false
}

// IndividualSchema describes the five-step individual application.
func IndividualSchema() *Schema {
	return &Schema{
		Variant:     VariantIndividual,
		Title:       "Individual Internship Application",
		Description: "Take the first step towards your career in technology.",
		Steps: numbered(
			Step{
				Title:       "Personal Information",
				Description: "Please provide your basic personal information",
				Fields: []FieldSpec{
					text("firstName", "First Name", "Enter your first name").required("First name is required"),
					text("lastName", "Last Name", "Enter your last name").required("Last name is required"),
					text("email", "Email Address", "Enter your email").required("Email is required").format("email"),
					text("phone", "Phone Number", "Enter your phone number").required("Phone number is required").format("phone"),
					text("dateOfBirth", "Date of Birth", "YYYY-MM-DD").required("Date of birth is required").format("datetime=2006-01-02"),
					narrative("address", "Address", "Enter your full address"),
					text("city", "City", "City"),
					text("state", "State", "State"),
					text("pincode", "Pincode", "Pincode").format("numeric,len=6"),
				},
			},
			Step{
				Title:       "Educational Information",
				Description: "Tell us about your educational background",
				Fields: []FieldSpec{
					text("collegeName", "College/Institute Name", "Enter your college name").required("College name is required"),
					choice("course", "Course", CourseOptions).required("Course is required"),
					choice("currentYear", "Current Year", CurrentYearOptions).required("Current year is required"),
					text("cgpa", "CGPA/Percentage", "Enter your CGPA or percentage").required("CGPA is required").format("numeric"),
					text("passingYear", "Expected/Actual Passing Year", "e.g., 2024").format("numeric,len=4"),
				},
			},
			Step{
				Title:       "Technical Skills",
				Description: "What technical skills do you have?",
				Fields: []FieldSpec{
					set("programmingLanguages", "Programming Languages", ProgrammingLanguageOptions).required("Select at least one programming language"),
					set("frameworks", "Frameworks & Libraries", FrameworkOptions),
					set("databases", "Databases", DatabaseOptions),
					narrative("otherSkills", "Other Technical Skills", "Mention any other technical skills, tools, or technologies you know"),
				},
			},
			Step{
				Title:       "Internship Preferences",
				Description: "What kind of internship are you looking for?",
				Fields: []FieldSpec{
					choice("preferredDomain", "Preferred Internship Domain", DomainOptions).required("Preferred domain is required"),
					choice("internshipDuration", "Preferred Duration", IndividualDurationOptions).required("Internship duration is required"),
					text("startDate", "Preferred Start Date", "YYYY-MM-DD").required("Start date is required").format("datetime=2006-01-02"),
					choice("internshipMode", "Internship Mode", ModeOptions).required("Internship mode is required"),
					choice("hasExperience", "Do you have any prior work experience?", ExperienceOptions),
					narrative("experienceDetails", "Experience Details", "Describe your work experience, internships, or relevant projects").when(`hasExperience == "yes"`),
					narrative("projectDetails", "Academic/Personal Projects", "Describe your significant academic or personal projects"),
				},
			},
			Step{
				Title:       "Final Details",
				Description: "Final details and agreements",
				Fields: []FieldSpec{
					{Name: "resume", Label: "Resume Upload", Kind: KindFile, Placeholder: "PDF, DOC, DOCX (Max 5MB)"},
					narrative("coverLetter", "Cover Letter / Why do you want to join us?", "Tell us why you want to join our internship program and what you hope to achieve").required("Cover letter is required"),
					choice("howDidYouHear", "How did you hear about us?", HowDidYouHearOptions),
					narrative("expectations", "What are your expectations from this internship?", "Share your expectations and goals for this internship"),
					consent("agreeToTerms", "I agree to the Terms and Conditions and understand that this internship may be unpaid or have a stipend as per company policy.").required("You must agree to terms and conditions"),
					consent("agreeToDataProcessing", "I consent to the processing of my personal data for the purpose of this internship application and future communications.").required("You must agree to data processing"),
				},
			},
		),
	}
}
