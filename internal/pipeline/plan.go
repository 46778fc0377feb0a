package pipeline

import (
	"io"
	"slices"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/report"
)

// Vertex name prefixes.
const (
	datasetPrefix = "dataset:"
	reportPrefix  = "report:"
)

// Plan is the run as a DAG: every dataset points at the reports that read it.
type Plan struct {
	graph    graph.Graph[string, string]
	reports  []report.Report
	datasets map[string]dataset.Spec
}

// NewPlan builds the run plan for the selected reports.
func NewPlan(reports []report.Report, params report.Params) (*Plan, error) {
	if len(reports) == 0 {
		return nil, errors.New("plan has no reports")
	}

	p := &Plan{
		graph:    graph.New(graph.StringHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles()),
		reports:  reports,
		datasets: make(map[string]dataset.Spec),
	}

	for _, r := range reports {
		rv := reportPrefix + r.Name()
		if err := p.graph.AddVertex(rv, graph.VertexAttribute("shape", "box")); err != nil {
			return nil, errors.Wrapf(err, "add report %s", r.Name())
		}
		for _, spec := range r.Datasets(params) {
			if prev, ok := p.datasets[spec.ID]; ok && prev.Name != spec.Name {
				return nil, errors.Errorf("dataset %s is read as both %s and %s", spec.ID, prev.Name, spec.Name)
			}
			dv := datasetPrefix + spec.ID
			err := p.graph.AddVertex(dv, graph.VertexAttribute("shape", "cylinder"), graph.VertexAttribute("tooltip", spec.Name))
			if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, errors.Wrapf(err, "add dataset %s", spec.ID)
			}
			p.datasets[spec.ID] = spec
			if err := p.graph.AddEdge(dv, rv); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, errors.Wrapf(err, "link %s to %s", spec.ID, r.Name())
			}
		}
	}
	return p, nil
}

// Reports returns the planned reports in selection order.
func (p *Plan) Reports() []report.Report { return p.reports }

// Datasets returns the distinct datasets the plan reads, sorted by ID.
func (p *Plan) Datasets() []dataset.Spec {
	out := make([]dataset.Spec, 0, len(p.datasets))
	for _, spec := range p.datasets {
		out = append(out, spec)
	}
	slices.SortFunc(out, func(a, b dataset.Spec) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Order returns the vertices in topological order: datasets before the
// reports that need them.
func (p *Plan) Order() ([]string, error) {
	order, err := graph.StableTopologicalSort(p.graph, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, errors.Wrap(err, "sort plan")
	}
	return order, nil
}

// Consumers returns the reports reading a dataset, sorted by name.
func (p *Plan) Consumers(datasetID string) ([]string, error) {
	adj, err := p.graph.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "adjacency map")
	}
	edges, ok := adj[datasetPrefix+datasetID]
	if !ok {
		return nil, errors.Errorf("dataset %s is not in the plan", datasetID)
	}
	out := make([]string, 0, len(edges))
	for target := range edges {
		out = append(out, strings.TrimPrefix(target, reportPrefix))
	}
	slices.Sort(out)
	return out, nil
}

// WriteDOT writes the plan in Graphviz DOT format.
func (p *Plan) WriteDOT(w io.Writer) error {
	return errors.Wrap(draw.DOT(p.graph, w), "write DOT")
}
