package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
	"github.com/goliatone/go-internsite/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputErr     error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) FilePath(ctx context.Context, cfg FileConfig) (string, error) {
	path, err := s.Input(ctx, InputConfig{Message: cfg.Message, Default: cfg.Default})
	return strings.TrimSpace(path), err
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type scriptedGateway struct {
	calls int
	errs  []error
}

func (g *scriptedGateway) Submit(_ context.Context, _ stepform.Submission) (stepform.Receipt, error) {
	g.calls++
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		if err != nil {
			return stepform.Receipt{}, err
		}
	}
	return stepform.Receipt{Reference: "ref-42"}, nil
}

func newRunner(t *testing.T, driver PromptDriver, out *bytes.Buffer, opts ...Option) *Runner {
	t.Helper()
	r, err := New(append([]Option{WithPromptDriver(driver), WithOutput(out)}, opts...)...)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r
}

func newController(t *testing.T, variant application.Variant, gw stepform.Gateway) *stepform.Controller {
	t.Helper()
	c, err := stepform.NewController(variant, gw)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestRun_EnquirySubmits(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada Lovelace", "ada@example.com", ""},
		selectIdx: []int{2, 0},
		textAreas: []string{"Interested in the mobile track"},
	}
	var out bytes.Buffer
	gw := &scriptedGateway{}
	c := newController(t, application.VariantEnquiry, gw)

	receipt, err := newRunner(t, driver, &out).Run(context.Background(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if receipt.Reference != "ref-42" {
		t.Fatalf("reference = %q", receipt.Reference)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1", gw.calls)
	}
	course, _ := c.Value("course")
	if diff := cmp.Diff("mobile-app", course.String()); diff != "" {
		t.Fatalf("course mismatch (-want +got):\n%s", diff)
	}

	printed := out.String()
	for _, want := range []string{
		"Send us a Message",
		"Step 1 of 1 · Contact",
		"Reference: ref-42",
		"Interested Course: Mobile App Development",
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("output missing %q:\n%s", want, printed)
		}
	}
}

func TestRun_ValidationErrorsReprompt(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "ada@example.com", "", "Ada", "ada@example.com", ""},
		selectIdx: []int{0, 0, 0, 0},
		textAreas: []string{"hi", "hi"},
	}
	var out bytes.Buffer
	gw := &scriptedGateway{}
	c := newController(t, application.VariantEnquiry, gw)

	if _, err := newRunner(t, driver, &out).Run(context.Background(), c); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1", gw.calls)
	}
	want := []string{
		"✗ Full Name: Name is required",
		"✗ Name is required",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_GatewayFailureRetries(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com", "", "Ada", "ada@example.com", ""},
		selectIdx: []int{0, 0, 0, 0},
		textAreas: []string{"hi", "hi"},
	}
	var out bytes.Buffer
	gw := &scriptedGateway{errs: []error{errors.New("boom")}}
	c := newController(t, application.VariantEnquiry, gw)

	receipt, err := newRunner(t, driver, &out, WithOutputFormat(OutputFormatNone)).Run(context.Background(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gw.calls != 2 || c.Attempts() != 2 {
		t.Fatalf("calls = %d attempts = %d, want 2/2", gw.calls, c.Attempts())
	}
	if receipt.Reference != "ref-42" {
		t.Fatalf("reference = %q", receipt.Reference)
	}
	if diff := cmp.Diff([]string{"✗ " + stepform.FailureNotice}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_AbortStops(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	var out bytes.Buffer
	gw := &scriptedGateway{}
	c := newController(t, application.VariantEnquiry, gw)

	_, err := newRunner(t, driver, &out).Run(context.Background(), c)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway called on abort")
	}
}

func TestRun_RequiresController(t *testing.T) {
	r := newRunner(t, &stubDriver{}, &bytes.Buffer{})
	if _, err := r.Run(context.Background(), nil); !errors.Is(err, ErrNoController) {
		t.Fatalf("err = %v, want ErrNoController", err)
	}
}

func TestPromptStep_RevealsConditionalField(t *testing.T) {
	c := newController(t, application.VariantIndividual, &scriptedGateway{})
	steps := []map[string]application.Value{
		{
			"firstName":   application.Text("Ada"),
			"lastName":    application.Text("Lovelace"),
			"email":       application.Text("ada@example.com"),
			"phone":       application.Text("9876543210"),
			"dateOfBirth": application.Text("2002-12-10"),
		},
		{
			"collegeName": application.Text("Engineering College"),
			"course":      application.Choice("diploma-computer"),
			"currentYear": application.Choice("2nd"),
			"cgpa":        application.Text("8.4"),
		},
		{
			"programmingLanguages": application.Set("Python"),
		},
	}
	for _, values := range steps {
		for name, v := range values {
			if err := c.Set(name, v); err != nil {
				t.Fatalf("set %s: %v", name, err)
			}
		}
		if errs, err := c.Next(); err != nil || len(errs) > 0 {
			t.Fatalf("next: %v %v", errs, err)
		}
	}

	driver := &stubDriver{
		selectIdx: []int{0, 0, 0, 1},
		inputs:    []string{"2025-01-15"},
		textAreas: []string{"Two years at a startup", "Compiler side project"},
	}
	r := newRunner(t, driver, &bytes.Buffer{})
	if err := r.promptStep(context.Background(), c); err != nil {
		t.Fatalf("prompt step: %v", err)
	}
	if driver.textPos != 2 {
		t.Fatalf("text areas consumed = %d, want 2", driver.textPos)
	}
	details, _ := c.Value("experienceDetails")
	if details.String() != "Two years at a startup" {
		t.Fatalf("experienceDetails = %q", details.String())
	}
}

func TestPromptField_AttachmentRejectsType(t *testing.T) {
	c := newController(t, application.VariantIndividual, &scriptedGateway{})
	field := application.FieldSpec{Name: "resume", Label: "Resume", Kind: application.KindFile}
	files := map[string][]byte{
		"/tmp/cv.exe": []byte("MZ"),
		"/tmp/cv.pdf": []byte("%PDF-1.7"),
	}
	driver := &stubDriver{inputs: []string{"/tmp/cv.exe", "/tmp/cv.pdf"}}
	r := newRunner(t, driver, &bytes.Buffer{}, WithFileReader(func(path string) ([]byte, error) {
		return files[path], nil
	}))

	if err := r.promptField(context.Background(), c, field); err != nil {
		t.Fatalf("prompt field: %v", err)
	}
	if len(driver.infoMessages) != 1 {
		t.Fatalf("expected one rejection message, got %v", driver.infoMessages)
	}
	v, _ := c.Value("resume")
	att := v.Attachment()
	if att == nil || att.Name != "cv.pdf" || att.ContentType != "application/pdf" {
		t.Fatalf("attachment = %+v", att)
	}
}

func TestSummarize_Formats(t *testing.T) {
	schema := application.EnquirySchema()
	rec := testsupport.MustRecord(t, application.VariantEnquiry, map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"course":  "mobile-app",
		"message": "hi",
	})

	form, err := Summarize(schema, rec, OutputFormatFormURLEncoded)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if diff := cmp.Diff("course=mobile-app&email=ada%40example.com&message=hi&name=Ada", form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	pretty, err := Summarize(schema, rec, OutputFormatPrettyText)
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	wantPretty := strings.Join([]string{
		"Contact",
		"  Full Name: Ada",
		"  Email Address: ada@example.com",
		"  Interested Course: Mobile App Development",
		"  Message: hi",
	}, "\n")
	if diff := cmp.Diff(wantPretty, pretty); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}

	js, err := Summarize(schema, rec, OutputFormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(js, `"applicationType": "enquiry"`) {
		t.Fatalf("json payload missing discriminator:\n%s", js)
	}

	if _, err := Summarize(schema, rec, OutputFormat("xml")); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
