package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	wailsrt "github.com/wailsapp/wails/v2/pkg/runtime"

	"bridgewright/pkg/export"
	"bridgewright/pkg/preview"
	"bridgewright/pkg/script"
	"bridgewright/pkg/solid"
	"bridgewright/pkg/solid/memberize"
	sdfxkernel "bridgewright/pkg/solid/sdfx"
	"bridgewright/pkg/staad"
	"bridgewright/pkg/staad/wsbridge"
	"bridgewright/pkg/truss"
)

// defaultBridgeAddr is the websocket sidecar that fronts the OpenSTAAD
// automation interface on the host running STAAD.Pro.
const defaultBridgeAddr = "ws://127.0.0.1:8721/openstaad"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	engine   *script.Engine
	kernel   solid.Kernel
	exporter export.Exporter

	// exportMu is the single-flight guard: one export at a time, no queue.
	exportMu sync.Mutex

	// emit sends an event to the frontend. Replaced in tests.
	emit func(name string, data ...interface{})
}

// PreviewResult is the JSON-serializable preview returned to the frontend.
// On validation failure Errors is populated and SVG is empty; the frontend
// keeps showing the previous preview.
type PreviewResult struct {
	SVG    string      `json:"svg"`
	Stats  truss.Stats `json:"stats"`
	Errors []string    `json:"errors"`
}

// MeshData is the JSON-serializable mesh format sent to the 3D viewport.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Role     string    `json:"role"`
	Color    string    `json:"color"`
}

// SolidResult bundles the meshes for one configuration.
type SolidResult struct {
	Meshes []MeshData `json:"meshes"`
	Errors []string   `json:"errors"`
}

// EvalErrorData is a JSON-serializable preset error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// PresetResult is the result of evaluating a preset script.
type PresetResult struct {
	Config *export.Config  `json:"config"`
	Errors []EvalErrorData `json:"errors"`
}

// CatalogData feeds the form combo boxes.
type CatalogData struct {
	Topologies       []string `json:"topologies"`
	UnitSystems      []string `json:"unitSystems"`
	ChordSections    []string `json:"chordSections"`
	DiagonalSections []string `json:"diagonalSections"`
	SupportKinds     []string `json:"supportKinds"`
}

// NewApp creates a new App with a preset engine, the sdfx kernel and a
// websocket-backed exporter.
func NewApp() *App {
	a := &App{
		engine: script.NewEngine(),
		kernel: sdfxkernel.New(),
	}
	a.exporter.Dial = func(ctx context.Context) (staad.Client, error) {
		c, err := wsbridge.Dial(ctx, defaultBridgeAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	a.emit = func(name string, data ...interface{}) {
		if a.ctx == nil {
			return
		}
		wailsrt.EventsEmit(a.ctx, name, data...)
	}
	return a
}

// configProblems flattens a validation failure into frontend-friendly
// problem strings.
func configProblems(cfg export.Config) []string {
	err := cfg.Validate()
	if err == nil {
		return nil
	}
	var icerr *export.InvalidConfigError
	if errors.As(err, &icerr) {
		return icerr.Problems
	}
	return []string{err.Error()}
}

// startup is called by Wails on app startup. The context is saved so the
// export worker can emit events later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Preview validates the configuration, generates geometry and renders the
// 2D schematic. It is synchronous and pure CPU, so it is safe to call on
// every form change. Invalid configurations return the problem list and
// no drawing.
func (a *App) Preview(cfg export.Config) PreviewResult {
	result := PreviewResult{Errors: []string{}}

	if errs := configProblems(cfg); len(errs) > 0 {
		result.Errors = errs
		return result
	}

	g, err := truss.Generate(cfg.Truss)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.SVG = preview.RenderSVG(preview.Build(g))
	result.Stats = g.Stats()
	return result
}

// SolidView generates the geometry and tessellates one mesh per member
// role for the 3D viewport.
func (a *App) SolidView(cfg export.Config) SolidResult {
	result := SolidResult{Meshes: []MeshData{}, Errors: []string{}}

	if errs := configProblems(cfg); len(errs) > 0 {
		result.Errors = errs
		return result
	}

	g, err := truss.Generate(cfg.Truss)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	meshes, err := memberize.Memberize(g, a.kernel, memberize.Options{})
	if err != nil {
		log.Printf("SolidView: %v", err)
		result.Errors = append(result.Errors, "tessellation failed: "+err.Error())
		return result
	}

	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Role:     m.Role,
			Color:    roleColor(m.Role),
		})
	}
	return result
}

// roleColor matches the 3D view to the 2D schematic palette.
func roleColor(role string) string {
	for _, r := range truss.Roles {
		if r.String() == role {
			return preview.StyleFor(r).Color
		}
	}
	return "#60a5fa"
}

// Export starts the modeling sequence on a worker goroutine. It returns
// false immediately when an export is already running; there is no queue.
// Progress and completion are reported through the export:log and
// export:status events — the worker never touches frontend state directly.
func (a *App) Export(cfg export.Config) bool {
	if !a.exportMu.TryLock() {
		return false
	}

	a.emit("export:status", "running")

	go func() {
		defer a.exportMu.Unlock()

		logf := func(level export.Level, format string, args ...any) {
			line := fmt.Sprintf(format, args...)
			log.Printf("export: %s", line)
			a.emit("export:log", map[string]any{
				"level": level.String(),
				"line":  line,
			})
		}

		if err := a.exporter.Run(context.Background(), cfg, logf); err != nil {
			logf(export.LevelError, "%v", err)
			a.emit("export:status", "error")
			return
		}
		a.emit("export:status", "done")
	}()

	return true
}

// LoadPreset evaluates a preset script and returns the resulting
// configuration, or the script errors.
func (a *App) LoadPreset(source string) PresetResult {
	result := PresetResult{Errors: []EvalErrorData{}}

	cfg, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("LoadPreset fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if len(evalErrs) > 0 {
		return result
	}

	result.Config = cfg
	return result
}

// Catalog returns the selectable tables for the form combo boxes.
func (a *App) Catalog() CatalogData {
	data := CatalogData{
		ChordSections:    append([]string(nil), staad.ChordSections...),
		DiagonalSections: append([]string(nil), staad.DiagonalSections...),
	}
	for _, t := range truss.Topologies {
		data.Topologies = append(data.Topologies, t.String())
	}
	for _, u := range staad.UnitSystems {
		data.UnitSystems = append(data.UnitSystems, u.Name)
	}
	for _, k := range staad.SupportKinds {
		data.SupportKinds = append(data.SupportKinds, string(k))
	}
	return data
}
