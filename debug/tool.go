// Package debug holds tools for inspecting light in a running world. They are only registered when the
// debug settings ask for them.
package debug

import (
	"errors"
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/tallworlds/cubic/util"
	"github.com/tallworlds/cubic/world"
)

// Namespace is the namespace of the model locations of all debug tools.
const Namespace = "cubic"

// ModelLocation points at the model a tool is rendered with.
type ModelLocation struct {
	Namespace string
	Path      string
	Variant   string
}

// InventoryModel returns the inventory model location of the tool with the name passed.
func InventoryModel(name string) ModelLocation {
	return ModelLocation{Namespace: Namespace, Path: name, Variant: "inventory"}
}

func (m ModelLocation) String() string {
	return fmt.Sprintf("%s:%s#%s", m.Namespace, m.Path, m.Variant)
}

// Result reports the light checks a tool ran and how many of them succeeded.
type Result struct {
	Checked int
	Lit     int
}

// Tool is a debug tool used on a position.
type Tool struct {
	Name  string
	Model ModelLocation

	use func(pos cube.Pos) Result
}

// Use runs the tool on the position passed.
func (t Tool) Use(pos cube.Pos) Result {
	return t.use(pos)
}

// ErrDuplicate is returned when a tool with the same name is registered twice.
var ErrDuplicate = errors.New("tool already registered")

// Registry holds registered tools in registration order.
type Registry struct {
	tools *orderedmap.OrderedMap[string, Tool]
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: orderedmap.NewOrderedMap[string, Tool]()}
}

// Register adds a tool to the Registry.
func (r *Registry) Register(t Tool) error {
	if _, ok := r.tools.Get(t.Name); ok {
		return fmt.Errorf("register %q: %w", t.Name, ErrDuplicate)
	}
	r.tools.Set(t.Name, t)
	return nil
}

// Tool returns the tool registered under the name passed.
func (r *Registry) Tool(name string) (Tool, bool) {
	return r.tools.Get(name)
}

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, r.tools.Len())
	for el := r.tools.Front(); el != nil; el = el.Next() {
		tools = append(tools, el.Value)
	}
	return tools
}

const (
	RelightSkyBlock     = "relight_sky_block"
	CheckLightDownwards = "check_light_downwards"
)

// RegisterDefaults registers the light tools for the World passed if enabled is true. The tools run their
// checks through gate.
func RegisterDefaults(r *Registry, w *world.World, gate *world.LightGate, enabled bool) error {
	if !enabled {
		return nil
	}
	tools := []Tool{
		{
			Name:  RelightSkyBlock,
			Model: InventoryModel(RelightSkyBlock),
			use: func(pos cube.Pos) Result {
				return check(Result{}, gate.CheckLightFor(world.SkyLight, pos))
			},
		},
		{
			Name:  CheckLightDownwards,
			Model: InventoryModel(CheckLightDownwards),
			use: func(pos cube.Pos) Result {
				var res Result
				for ; w.Valid(pos); pos = pos.Side(cube.FaceDown) {
					if _, ok := w.Cube(util.CubePos(pos)); !ok {
						break
					}
					res = check(res, gate.CheckLightFor(world.SkyLight, pos))
				}
				return res
			},
		},
	}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func check(res Result, lit bool) Result {
	res.Checked++
	if lit {
		res.Lit++
	}
	return res
}
