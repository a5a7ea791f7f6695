package main

import (
	"context"
	"os"
	"sync"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/chazu/octreeview/pkg/config"
	"github.com/chazu/octreeview/pkg/engine"
	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/chazu/octreeview/pkg/probe"
	"github.com/chazu/octreeview/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("octreeview")

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	engine *engine.Engine
	store  *scene.Store

	mu    sync.Mutex
	probe probe.Probe
}

// MeshData is the JSON-serializable vertex buffer sent to the frontend.
// Count is the number of vertices to draw.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Name     string    `json:"name"`
	Count    int       `json:"count"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SceneData is everything the frontend draws for one scene.
type SceneData struct {
	ID            string      `json:"id"`
	Points        MeshData    `json:"points"`
	Cubes         MeshData    `json:"cubes"`
	Axes          MeshData    `json:"axes"`
	CubeDrawCount int         `json:"cubeDrawCount"`
	Stats         scene.Stats `json:"stats"`
}

// EvalResult is the result of a rebuild. Scene is nil when the rebuild
// failed; the previous scene stays current.
type EvalResult struct {
	Scene    *SceneData      `json:"scene"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// ProbeResult is returned when the probe moves. Indices are the points
// inside the sphere.
type ProbeResult struct {
	Indices []int    `json:"indices"`
	Sphere  MeshData `json:"sphere"`
	Marker  MeshData `json:"marker"`
	Error   string   `json:"error,omitempty"`
}

// NewApp creates an App from cfg. A nil cfg means the defaults.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		cfg:    cfg,
		engine: cfg.NewEngine(),
		store:  scene.NewStore(),
		probe:  cfg.ProbeSphere(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if res := a.initialScene(); len(res.Errors) > 0 {
		log.Errorf("initial scene failed: %s", res.Errors[0].Message)
	}
}

// initialScene builds the scene the configuration asks for: the point
// script if one is set, otherwise uniform points.
func (a *App) initialScene() EvalResult {
	if a.cfg.Points.Script == "" {
		return a.SetPointCount(a.cfg.Points.Count)
	}
	source, err := os.ReadFile(a.cfg.Points.Script)
	if err != nil {
		return failed(errors.Wrap(err, "point script"))
	}
	return a.Evaluate(string(source))
}

// Scene returns the current scene, building the initial one on first use.
func (a *App) Scene() EvalResult {
	if s := a.store.Current(); s != nil {
		return EvalResult{
			Scene:    sceneData(s),
			Errors:   []EvalErrorData{},
			Warnings: findingData(s.Findings),
		}
	}
	return a.initialScene()
}

// SetPointCount rebuilds the scene from n uniform points.
func (a *App) SetPointCount(n int) EvalResult {
	if n < 0 || n > engine.MaxPoints {
		return failed(errors.Errorf("point count %d out of range [0, %d]", n, engine.MaxPoints))
	}
	d := a.cfg.RootDomain()
	c := cloud.Uniform(n, d.Box(), a.cfg.Points.Seed)
	return a.rebuild(c, scene.SourceUniform)
}

// Evaluate runs a point script and rebuilds the scene from its points.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	c, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Warningf("Evaluate fatal error: %v", err)
		return failed(err)
	}
	if len(evalErrs) > 0 {
		result := failed(nil)
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	return a.rebuild(c, scene.SourceScript)
}

func (a *App) rebuild(c *cloud.Cloud, source string) EvalResult {
	s, err := a.store.Rebuild(c, a.cfg.RootDomain(), source)
	if err != nil {
		log.Warningf("rebuild failed: %v", err)
		return failed(err)
	}
	return EvalResult{
		Scene:    sceneData(s),
		Errors:   []EvalErrorData{},
		Warnings: findingData(s.Findings),
	}
}

// QueryProbe moves the probe sphere and returns the points inside it with
// the buffers that draw it.
func (a *App) QueryProbe(x, y, z, radius float64) ProbeResult {
	p := probe.Probe{Center: v3.Vec{X: x, Y: y, Z: z}, Radius: radius}
	result := ProbeResult{Indices: []int{}}

	sphere, err := p.Mesh(a.cfg.Probe.MeshCells)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if a.store.Current() == nil {
		a.initialScene()
	}
	indices, err := a.store.Query(p)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	a.mu.Lock()
	a.probe = p
	a.mu.Unlock()

	if indices != nil {
		result.Indices = indices
	}
	result.Sphere = meshData(sphere)
	result.Marker = meshData(p.Marker())
	return result
}

// Probe returns the last probe that was queried.
func (a *App) Probe() probe.Probe {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.probe
}

func failed(err error) EvalResult {
	result := EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	return result
}

func sceneData(s *scene.Snapshot) *SceneData {
	return &SceneData{
		ID:            s.ID.String(),
		Points:        meshData(s.Cloud.Mesh()),
		Cubes:         meshData(s.Cubes),
		Axes:          meshData(mesh.Axes(s.Domain.Size / 2)),
		CubeDrawCount: s.CubeDrawCount,
		Stats:         s.Stats(),
	}
}

func meshData(m *mesh.Mesh) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Name:     m.Name,
		Count:    m.VertexCount(),
	}
}

func findingData(findings []cloud.Finding) []EvalErrorData {
	warnings := []EvalErrorData{}
	for _, f := range findings {
		warnings = append(warnings, EvalErrorData{Message: f.Error()})
	}
	return warnings
}
