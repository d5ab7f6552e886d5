package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-flows/internal/store"
	"github.com/askiada/go-flows/pkg/pipeline/measure"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

var stateColours = map[model.StepState]string{
	model.StepPending:   "#a0a0a0",
	model.StepRunning:   "#0000f0",
	model.StepCompleted: "#00a000",
	model.StepFailed:    "#f00000",
}

// DOTDrawer renders the pipeline graph in the graphviz DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.PropertyStore[string, string]
	fileName string
	out      io.Writer
	options  []func(*description)
}

// NewDOTDrawer creates a drawer writing to the file fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	vertices := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    vertices,
		graph:    graph.NewWithStore[string, string](graph.StringHash, vertices, graph.Directed()),
		options:  []func(*description){graphAttribute("rankdir", "LR")},
	}
}

// NewDOTDrawerTo creates a drawer writing to out.
func NewDOTDrawerTo(out io.Writer) *DOTDrawer {
	d := NewDOTDrawer("")
	d.out = out

	return d
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

// AddLink adds a link between parent and child steps.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// SetState colours the outline of the step.
func (d *DOTDrawer) SetState(stepName string, state model.StepState) error {
	colour, ok := stateColours[state]
	if !ok {
		return errors.Errorf("unknown state %q", state)
	}

	err := d.store.UpdateVertex(stepName, graph.VertexAttribute("color", colour))
	if err != nil {
		return errors.Wrap(err, "unable to set step state")
	}

	return nil
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, totalTime time.Duration) error {
	err := d.store.UpdateVertex(stepName, graph.VertexAttribute("xlabel", totalTime.String()))
	if err != nil {
		return errors.Wrap(err, "unable to get end vertex properties")
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every step with its average duration and fills it with a colour going from blue for the
// fastest step to red for the slowest one.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	var minValue, maxValue time.Duration

	for name, mt := range msr.AllMetrics() {
		if name == model.EndStep.Name {
			continue
		}

		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}

		if minValue == 0 || avg < minValue {
			minValue = avg
		}

		if avg > maxValue {
			maxValue = avg
		}
	}

	for name, mt := range msr.AllMetrics() {
		if name == model.EndStep.Name {
			continue
		}

		options := []func(*graph.VertexProperties){}

		avg := mt.AVGDuration()
		if avg != 0 {
			fraction := 1.0
			if maxValue > minValue {
				fraction = float64(avg-minValue) / float64(maxValue-minValue)
			}

			heatColor, err := colors.RGB(uint8(maxRGB*fraction), 0, uint8(maxRGB-maxRGB*fraction)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}

			options = append(options,
				graph.VertexAttribute("xlabel", avg.String()),
				graph.VertexAttribute("style", "filled"),
				graph.VertexAttribute("fillcolor", heatColor.ToHEX().String()),
				graph.VertexAttribute("fontcolor", "white"),
			)
		}

		if mt.Failures() > 0 {
			options = append(options, graph.VertexAttribute("tooltip", fmt.Sprintf("%d failure(s)", mt.Failures())))
		}

		err := d.store.UpdateVertex(name, options...)
		if err != nil {
			return errors.Wrap(err, "unable to update metrics")
		}
	}

	return nil
}

// Draw writes the pipeline graph.
func (d *DOTDrawer) Draw() error {
	if d.out != nil {
		return dot(d.graph, d.out, d.options...)
	}

	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}

	err = dot(d.graph, file, d.options...)
	if err != nil {
		_ = file.Close()

		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	err = file.Close()
	if err != nil {
		return errors.Wrapf(err, "unable to close file %s", d.fileName)
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// graphAttribute sets an attribute of the whole graph.
func graphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range sortedKeys(adjacencyMap) {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))

		for k, v := range sourceProperties.Attributes {
			sourceAttributes[k] = v
		}

		if xlabel, ok := sourceAttributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceAttributes, "xlabel")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		adjacencies := adjacencyMap[vertex]
		for _, adjacency := range sortedKeys(adjacencies) {
			edge := adjacencies[adjacency]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
