package application

// Institute is the application filed by an educational institute on behalf
// of a student batch.
type Institute struct {
	InstituteName            string `json:"instituteName"`
	InstituteType            string `json:"instituteType"`
	EstablishedYear          string `json:"establishedYear"`
	AffiliatedUniversity     string `json:"affiliatedUniversity"`
	PrincipalName            string `json:"principalName"`
	ContactPersonName        string `json:"contactPersonName"`
	ContactPersonDesignation string `json:"contactPersonDesignation"`
	InstituteEmail           string `json:"instituteEmail"`
	ContactPersonEmail       string `json:"contactPersonEmail"`
	InstitutePhone           string `json:"institutePhone"`
	ContactPersonPhone       string `json:"contactPersonPhone"`
	InstituteAddress         string `json:"instituteAddress"`
	City                     string `json:"city"`
	State                    string `json:"state"`
	Pincode                  string `json:"pincode"`
	Website                  string `json:"website"`

	TotalStudents      string   `json:"totalStudents"`
	PreferredDomains   []string `json:"preferredDomains"`
	InternshipDuration string   `json:"internshipDuration"`
	PreferredStartDate string   `json:"preferredStartDate"`
	BatchSize          string   `json:"batchSize"`
	StudentYear        string   `json:"studentYear"`
	CourseName         string   `json:"courseName"`

	HasComputerLab       string `json:"hasComputerLab"`
	InternetConnectivity string `json:"internetConnectivity"`
	ProjectorAvailable   string `json:"projectorAvailable"`
	SpecialRequirements  string `json:"specialRequirements"`

	HasPreviousInternships    string `json:"hasPreviousInternships"`
	PreviousInternshipDetails string `json:"previousInternshipDetails"`
	Expectations              string `json:"expectations"`
	AdditionalInfo            string `json:"additionalInfo"`

	AgreeToTerms          bool `json:"agreeToTerms"`
	AgreeToDataProcessing bool `json:"agreeToDataProcessing"`
}

// NewInstitute returns an empty institute application.
func NewInstitute() *Institute {
	return &Institute{PreferredDomains: []string{}}
}

func (*Institute) Variant() Variant { return VariantInstitute }

func (a *Institute) Field(name string) (Value, bool) { return getField(a, name) }

func (a *Institute) SetField(name string, v Value) error { return setField(a, name, v) }

func (a *Institute) Clone() Record {
	out := *a
	out.PreferredDomains = append([]string{}, a.PreferredDomains...)
	return &out
}

func (a *Institute) slot(name string) (slot, bool) {
	switch name {
	case "instituteName":
		return textSlot(&a.InstituteName), true
	case "instituteType":
		return choiceSlot(&a.InstituteType), true
	case "establishedYear":
		return textSlot(&a.EstablishedYear), true
	case "affiliatedUniversity":
		return textSlot(&a.AffiliatedUniversity), true
	case "principalName":
		return textSlot(&a.PrincipalName), true
	case "contactPersonName":
		return textSlot(&a.ContactPersonName), true
	case "contactPersonDesignation":
		return textSlot(&a.ContactPersonDesignation), true
	case "instituteEmail":
		return textSlot(&a.InstituteEmail), true
	case "contactPersonEmail":
		return textSlot(&a.ContactPersonEmail), true
	case "institutePhone":
		return textSlot(&a.InstitutePhone), true
	case "contactPersonPhone":
		return textSlot(&a.ContactPersonPhone), true
	case "instituteAddress":
		return textSlot(&a.InstituteAddress), true
	case "city":
		return textSlot(&a.City), true
	case "state":
		return textSlot(&a.State), true
	case "pincode":
		return textSlot(&a.Pincode), true
	case "website":
		return textSlot(&a.Website), true
	case "totalStudents":
		return choiceSlot(&a.TotalStudents), true
	case "preferredDomains":
		return setSlot(&a.PreferredDomains), true
	case "internshipDuration":
		return choiceSlot(&a.InternshipDuration), true
	case "preferredStartDate":
		return textSlot(&a.PreferredStartDate), true
	case "batchSize":
		return choiceSlot(&a.BatchSize), true
	case "studentYear":
		return choiceSlot(&a.StudentYear), true
	case "courseName":
		return textSlot(&a.CourseName), true
	case "hasComputerLab":
		return choiceSlot(&a.HasComputerLab), true
	case "internetConnectivity":
		return choiceSlot(&a.InternetConnectivity), true
	case "projectorAvailable":
		return choiceSlot(&a.ProjectorAvailable), true
	case "specialRequirements":
		return textSlot(&a.SpecialRequirements), true
	case "hasPreviousInternships":
		return choiceSlot(&a.HasPreviousInternships), true
	case "previousInternshipDetails":
		return textSlot(&a.PreviousInternshipDetails), true
	case "expectations":
		return textSlot(&a.Expectations), true
	case "additionalInfo":
		return textSlot(&a.AdditionalInfo), true
	case "agreeToTerms":
		return flagSlot(&a.AgreeToTerms), true
	case "agreeToDataProcessing":
		return flagSlot(&a.AgreeToDataProcessing), true
	}
	return slot{}, false
}

// InstituteSchema describes the four-step institute application.
func InstituteSchema() *Schema {
	return &Schema{
		Variant:     VariantInstitute,
		Title:       "Institute Internship Program Application",
		Description: "Partner with us to provide industry-relevant training for your students.",
		Steps: numbered(
			Step{
				Title:       "Institute Information",
				Description: "Please provide your institute's basic information",
				Fields: []FieldSpec{
					text("instituteName", "Institute Name", "Enter your institute name").required("Institute name is required"),
					choice("instituteType", "Institute Type", InstituteTypeOptions).required("Institute type is required"),
					text("establishedYear", "Established Year", "e.g., 1995").format("numeric,len=4"),
					text("affiliatedUniversity", "Affiliated University/Board", "Enter affiliated university or board name"),
					text("principalName", "Principal Name", "Enter principal's name").required("Principal name is required"),
					text("contactPersonName", "Contact Person Name", "Enter contact person's name").required("Contact person name is required"),
					text("contactPersonDesignation", "Contact Person Designation", "e.g., HOD Computer Engineering, Training & Placement Officer"),
					text("instituteEmail", "Institute Email", "Enter institute email").required("Institute email is required").format("email"),
					text("contactPersonEmail", "Contact Person Email", "Enter contact person's email").format("email"),
					text("institutePhone", "Institute Phone", "Enter institute phone number").required("Institute phone is required").format("phone"),
					text("contactPersonPhone", "Contact Person Phone", "Enter contact person's phone").format("phone"),
					narrative("instituteAddress", "Institute Address", "Enter complete institute address"),
					text("city", "City", "City"),
					text("state", "State", "State"),
					text("pincode", "Pincode", "Pincode").format("numeric,len=6"),
					text("website", "Institute Website", "https://www.yourinstitutewebsite.com").format("url"),
				},
			},
			Step{
				Title:       "Program Details",
				Description: "Tell us about your internship program requirements",
				Fields: []FieldSpec{
					choice("totalStudents", "Total Students for Internship", TotalStudentsOptions).required("Total students is required"),
					choice("batchSize", "Preferred Batch Size", BatchSizeOptions).required("Batch size is required"),
					set("preferredDomains", "Preferred Training Domains", InstituteDomainOptions).required("Select at least one domain"),
					choice("internshipDuration", "Internship Duration", InstituteDurationOptions).required("Duration is required"),
					text("preferredStartDate", "Preferred Start Date", "YYYY-MM-DD").required("Start date is required").format("datetime=2006-01-02"),
					choice("studentYear", "Student Year/Semester", StudentYearOptions),
					text("courseName", "Course Name", "e.g., Diploma in Computer Engineering"),
				},
			},
			Step{
				Title:       "Infrastructure & Requirements",
				Description: "Information about your institute's infrastructure",
				Fields: []FieldSpec{
					choice("hasComputerLab", "Does your institute have a computer lab?", ComputerLabOptions).required("Computer lab availability is required"),
					choice("internetConnectivity", "Internet Connectivity", ConnectivityOptions).required("Internet connectivity info is required"),
					choice("projectorAvailable", "Projector/Display Available?", ProjectorOptions),
					narrative("specialRequirements", "Special Requirements or Constraints", "Any special requirements, timing constraints, or other important information"),
				},
			},
			Step{
				Title:       "Final Details",
				Description: "Final details and agreements",
				Fields: []FieldSpec{
					choice("hasPreviousInternships", "Has your institute conducted internship programs before?", PreviousInternshipOptions),
					narrative("previousInternshipDetails", "Previous Internship Experience", "Describe your previous internship programs, companies involved, outcomes, etc.").when(`hasPreviousInternships == "yes"`),
					narrative("expectations", "What are your expectations from this internship program?", "Describe your expectations, learning outcomes you want for students, specific goals, etc.").required("Expectations are required"),
					narrative("additionalInfo", "Additional Information", "Any additional information you'd like to share about your institute or requirements"),
					consent("agreeToTerms", "I agree to the Terms and Conditions for institute internship programs and understand the program structure and requirements.").required("You must agree to terms and conditions"),
					consent("agreeToDataProcessing", "I consent to the processing of institute and contact person data for the purpose of this application and future program communications.").required("You must agree to data processing"),
				},
			},
		),
	}
}
