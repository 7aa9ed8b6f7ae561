package workflow

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

func testImage() model.MedicalImage {
	return model.MedicalImage{
		ID:       "ct-001",
		Modality: model.ModalityCT,
		Width:    512,
		Height:   512,
		Metadata: map[string]any{"studyDate": "2024-01-15"},
	}
}

func testAnnotation(id string) model.Annotation {
	return model.Annotation{
		ID:          id,
		ImageID:     "ct-001",
		Type:        model.TypePoint,
		Category:    model.CategoryFinding,
		Priority:    model.PriorityMedium,
		Coordinates: model.Coordinates{X: 10, Y: 10},
		Metadata:    map[string]any{},
	}
}

func TestNewController(t *testing.T) {
	c := NewController()
	s := c.State()

	if s.CurrentStep != Overview {
		t.Errorf("CurrentStep = %s", s.CurrentStep)
	}
	if s.CurrentImage != nil {
		t.Error("CurrentImage should be nil")
	}
	if len(s.Annotations) != 0 {
		t.Errorf("Annotations = %v", s.Annotations)
	}
	if s.IsComplete {
		t.Error("IsComplete should be false")
	}
	if !slices.Equal(s.StepHistory, []Step{Overview}) {
		t.Errorf("StepHistory = %v", s.StepHistory)
	}
}

func TestForwardGates(t *testing.T) {
	c := NewController()

	if c.CanGoToStep(FocusAreas) {
		t.Error("FocusAreas reachable without an image")
	}
	if c.GoToStep(FocusAreas) {
		t.Error("GoToStep(FocusAreas) succeeded without an image")
	}

	c.LoadImage(testImage())
	if !c.CanGoToStep(FocusAreas) {
		t.Error("FocusAreas not reachable after LoadImage")
	}
	if c.CanGoToStep(DetailedReview) {
		t.Error("DetailedReview reachable by skipping FocusAreas")
	}

	if !c.GoToStep(FocusAreas) {
		t.Fatal("GoToStep(FocusAreas) failed")
	}
	if c.CanGoToStep(DetailedReview) {
		t.Error("DetailedReview reachable without annotations")
	}

	c.AddAnnotation(testAnnotation("a1"))
	if c.CurrentStep() != FocusAreas {
		t.Errorf("AddAnnotation changed the step to %s", c.CurrentStep())
	}
	if !c.CanGoToStep(DetailedReview) {
		t.Error("DetailedReview not reachable after first annotation")
	}
	if c.CanGoToStep(Summary) {
		t.Error("Summary reachable by skipping DetailedReview")
	}

	if !c.NextStep() {
		t.Fatal("NextStep to DetailedReview failed")
	}
	if !c.CanGoToStep(Summary) {
		t.Error("Summary not reachable from DetailedReview with annotations")
	}
}

func TestSummaryGateNeedsAnnotations(t *testing.T) {
	c := NewController()
	c.LoadImage(testImage())
	c.GoToStep(FocusAreas)
	c.AddAnnotation(testAnnotation("a1"))
	c.GoToStep(DetailedReview)

	c.RemoveAnnotation("a1")
	if c.CanGoToStep(Summary) {
		t.Error("Summary reachable with no annotations")
	}
	// DetailedReview stays reachable because it was visited.
	if !c.CanGoToStep(DetailedReview) {
		t.Error("visited step became unreachable")
	}
}

func TestHistoryKeepsStepsReachable(t *testing.T) {
	c := NewController()
	c.LoadImage(testImage())
	c.GoToStep(FocusAreas)
	c.AddAnnotation(testAnnotation("a1"))
	c.GoToStep(DetailedReview)
	c.GoToStep(Summary)

	// Jump back to Overview, then straight forward to Summary via history.
	if !c.GoToStep(Overview) {
		t.Fatal("GoToStep(Overview) failed")
	}
	c.RemoveAnnotation("a1")
	for _, s := range Steps {
		if !c.CanGoToStep(s) {
			t.Errorf("visited step %s not reachable", s)
		}
	}
	if !c.GoToStep(Summary) {
		t.Error("could not return to visited Summary")
	}

	want := []Step{Overview, FocusAreas, DetailedReview, Summary}
	if got := c.State().StepHistory; !slices.Equal(got, want) {
		t.Errorf("StepHistory = %v, want %v", got, want)
	}
}

func TestTerminalLock(t *testing.T) {
	c := NewController()
	c.LoadImage(testImage())
	c.Complete()

	s := c.State()
	if s.CurrentStep != Summary || !s.IsComplete {
		t.Fatalf("after Complete state = %+v", s)
	}
	for _, step := range Steps {
		if c.CanGoToStep(step) {
			t.Errorf("step %s reachable after Complete", step)
		}
		if c.GoToStep(step) {
			t.Errorf("GoToStep(%s) succeeded after Complete", step)
		}
	}
	if c.PreviousStep() {
		t.Error("PreviousStep succeeded after Complete")
	}
	if len(c.ReachableSteps()) != 0 {
		t.Errorf("ReachableSteps = %v", c.ReachableSteps())
	}
}

func TestNextPreviousBoundaries(t *testing.T) {
	c := NewController()
	if c.PreviousStep() {
		t.Error("PreviousStep succeeded at Overview")
	}
	if c.NextStep() {
		t.Error("NextStep succeeded without image")
	}
	if c.CurrentStep() != Overview {
		t.Errorf("step changed to %s", c.CurrentStep())
	}

	c.LoadImage(testImage())
	c.AddAnnotation(testAnnotation("a1"))
	for i := 0; i < 3; i++ {
		if !c.NextStep() {
			t.Fatalf("NextStep %d failed", i)
		}
	}
	if c.CurrentStep() != Summary {
		t.Fatalf("expected Summary, got %s", c.CurrentStep())
	}
	if c.NextStep() {
		t.Error("NextStep succeeded at Summary")
	}
	if !c.PreviousStep() || c.CurrentStep() != DetailedReview {
		t.Errorf("PreviousStep from Summary landed on %s", c.CurrentStep())
	}
}

func TestLoadImageResetsStepButKeepsAnnotations(t *testing.T) {
	c := NewController()
	c.LoadImage(testImage())
	c.AddAnnotation(testAnnotation("a1"))
	c.GoToStep(FocusAreas)
	c.GoToStep(DetailedReview)

	next := testImage()
	next.ID = "ct-002"
	c.LoadImage(next)

	s := c.State()
	if s.CurrentStep != Overview {
		t.Errorf("CurrentStep = %s", s.CurrentStep)
	}
	if !slices.Equal(s.StepHistory, []Step{Overview}) {
		t.Errorf("StepHistory = %v", s.StepHistory)
	}
	if len(s.Annotations) != 1 {
		t.Errorf("annotations were cleared: %v", s.Annotations)
	}
	if s.CurrentImage == nil || s.CurrentImage.ID != "ct-002" {
		t.Errorf("CurrentImage = %+v", s.CurrentImage)
	}

	if n := c.ClearAnnotations(); n != 1 {
		t.Errorf("ClearAnnotations = %d", n)
	}
	if len(c.Annotations()) != 0 {
		t.Error("annotations remain after ClearAnnotations")
	}
}

func TestRemoveAnnotation(t *testing.T) {
	c := NewController()
	c.AddAnnotation(testAnnotation("a1"))
	c.AddAnnotation(testAnnotation("a2"))
	c.AddAnnotation(testAnnotation("a3"))

	if !c.RemoveAnnotation("a2") {
		t.Error("RemoveAnnotation(a2) reported nothing removed")
	}
	if c.RemoveAnnotation("missing") {
		t.Error("RemoveAnnotation(missing) reported a removal")
	}

	var ids []string
	for _, a := range c.Annotations() {
		ids = append(ids, a.ID)
	}
	if !slices.Equal(ids, []string{"a1", "a3"}) {
		t.Errorf("remaining ids = %v", ids)
	}
}

func TestState_IsDeepCopy(t *testing.T) {
	c := NewController()
	c.LoadImage(testImage())
	c.AddAnnotation(testAnnotation("a1"))

	s := c.State()
	s.Annotations[0].Priority = model.PriorityHigh
	s.Annotations[0].Metadata["x"] = 1
	s.CurrentImage.Metadata["studyDate"] = "changed"
	s.StepHistory[0] = Summary
	s.Annotations = append(s.Annotations, testAnnotation("a2"))

	again := c.State()
	if again.Annotations[0].Priority != model.PriorityMedium {
		t.Error("annotation priority leaked through snapshot")
	}
	if len(again.Annotations[0].Metadata) != 0 {
		t.Error("annotation metadata leaked through snapshot")
	}
	if again.CurrentImage.Metadata["studyDate"] != "2024-01-15" {
		t.Error("image metadata leaked through snapshot")
	}
	if again.StepHistory[0] != Overview {
		t.Error("history leaked through snapshot")
	}
	if len(again.Annotations) != 1 {
		t.Error("annotation slice leaked through snapshot")
	}
}

func TestInvalidStep(t *testing.T) {
	c := NewController()
	if c.CanGoToStep(Step(7)) || c.GoToStep(Step(-1)) {
		t.Error("out-of-range step accepted")
	}
}

func TestStepNamesAndDescriptions(t *testing.T) {
	tests := []struct {
		step Step
		name string
		desc string
	}{
		{Overview, "overview", "Initial image overview and orientation"},
		{FocusAreas, "focus", "Identify and mark areas of interest"},
		{DetailedReview, "detail", "Detailed examination and annotation"},
		{Summary, "summary", "Review summary and findings"},
	}

	c := NewController()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.step.String() != tt.name {
				t.Errorf("String() = %q", tt.step.String())
			}
			if c.StepDescription(tt.step) != tt.desc {
				t.Errorf("StepDescription = %q", c.StepDescription(tt.step))
			}
			parsed, err := ParseStep(tt.name)
			if err != nil || parsed != tt.step {
				t.Errorf("ParseStep(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}

	if _, err := ParseStep("review"); err == nil {
		t.Error("ParseStep accepted unknown name")
	}
	if long, err := ParseStep("detailed_review"); err != nil || long != DetailedReview {
		t.Errorf("ParseStep(detailed_review) = %v, %v", long, err)
	}
}

func TestStepJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Steps []Step `json:"steps"`
	}{Steps: Steps})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"steps":["overview","focus","detail","summary"]}` {
		t.Errorf("got %s", b)
	}

	var decoded struct {
		Step Step `json:"step"`
	}
	if err := json.Unmarshal([]byte(`{"step":"detail"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Step != DetailedReview {
		t.Errorf("decoded %s", decoded.Step)
	}
}
