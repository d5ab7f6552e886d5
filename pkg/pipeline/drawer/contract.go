package drawer

import (
	"time"

	"github.com/askiada/go-flows/pkg/pipeline/measure"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and child steps.
	AddLink(parentStepName, childStepName string) error
	// SetState colours the step according to its state in the last run.
	SetState(stepName string, state model.StepState) error
	// SetTotalTime sets the total time for the step.
	SetTotalTime(stepName string, totalTime time.Duration) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
	// Draw renders the pipeline graph.
	Draw() error
}
