package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/tallworlds/cubic/world"
)

// Settings contains everything that can be configured for a world and its entity ticking.
type Settings struct {
	World struct {
		// Dimension is the name of the dimension the world runs in: Legacy, Overworld or Tall.
		Dimension string
		// UpdateRadius is the horizontal radius in blocks that must be loaded around an entity for it to be
		// updated.
		UpdateRadius int
		// ViewDistance is the radius in columns kept loaded around the spawn position.
		ViewDistance int32
		// Spawn is the position entities are spawned around.
		Spawn struct {
			X, Y, Z int
		}
	}
	Storage struct {
		// Path is the directory of the cube database.
		Path string
		// Workers is the amount of goroutines decoding cubes. 0 selects the number of CPUs.
		Workers int
	}
	Simulation struct {
		// Ticks is the amount of ticks the driver runs for.
		Ticks int
		// Entities lists the heights entities are spawned at.
		Entities []int
	}
	Debug Debug
	Sentry struct {
		// DSN enables sentry crash reporting when set.
		DSN string
	}
}

// Debug holds switches that are off in release configurations.
type Debug struct {
	// LightUpdates lets light checks run instead of reporting every position as already lit.
	LightUpdates bool
	// Tools registers the light debugging tools.
	Tools bool
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.World.Dimension = world.Tall.String()
	s.World.UpdateRadius = 32
	s.World.ViewDistance = 4
	s.World.Spawn.Y = 64

	s.Storage.Path = "cubes"

	s.Simulation.Ticks = 100
	s.Simulation.Entities = []int{64, -2000, 100000}
	return s
}

// Dimension resolves the configured dimension.
func (s Settings) Dimension() (world.Dimension, error) {
	dim, ok := world.DimensionByName(s.World.Dimension)
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", s.World.Dimension)
	}
	return dim, nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Fields missing from the file keep their default values.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	} else if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if _, err := s.Dimension(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
