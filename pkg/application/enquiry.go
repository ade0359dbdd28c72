package application

// Enquiry is the single-step contact form message.
type Enquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Course  string `json:"course"`
	Message string `json:"message"`
}

// NewEnquiry returns an empty enquiry.
func NewEnquiry() *Enquiry {
	return &Enquiry{}
}

func (*Enquiry) Variant() Variant { return VariantEnquiry }

func (e *Enquiry) Field(name string) (Value, bool) { return getField(e, name) }

func (e *Enquiry) SetField(name string, v Value) error { return setField(e, name, v) }

func (e *Enquiry) Clone() Record {
	out := *e
	return &out
}

func (e *Enquiry) slot(name string) (slot, bool) {
	switch name {
	case "name":
		return textSlot(&e.Name), true
	case "email":
		return textSlot(&e.Email), true
	case "phone":
		return textSlot(&e.Phone), true
	case "course":
		return choiceSlot(&e.Course), true
	case "message":
		return textSlot(&e.Message), true
	}
	return slot{}, false
}

// EnquirySchema describes the contact form.
func EnquirySchema() *Schema {
	return &Schema{
		Variant:     VariantEnquiry,
		Title:       "Send us a Message",
		Description: "Fill out the form below and we'll get back to you within 24 hours.",
		Steps: numbered(
			Step{
				Title: "Contact",
				Fields: []FieldSpec{
					text("name", "Full Name", "Enter your full name").required("Name is required"),
					text("email", "Email Address", "Enter your email").required("Email is required").format("email"),
					text("phone", "Phone Number", "Enter your phone number").format("phone"),
					choice("course", "Interested Course", EnquiryCourseOptions),
					narrative("message", "Message", "Tell us about your goals and how we can help you...").required("Message is required"),
				},
			},
		),
	}
}
