package arm

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultWaypointsYAML is written when the configured waypoints file is
// absent, mirroring how the default Modelfile is generated.
const defaultWaypointsYAML = `# Named arm positions, reachable with the goto_waypoint tool.
# Coordinates are metres from the arm base.
home: {x: 0.0, y: 0.2, z: 0.3}
rest: {x: 0.0, y: 0.15, z: 0.05}
bin: {x: -0.25, y: 0.2, z: 0.15}
camera: {x: 0.25, y: 0.2, z: 0.25}
`

// LoadWaypoints reads named positions from the YAML file at path,
// generating the default set when the file does not exist. It reports
// whether the default file was created.
func LoadWaypoints(path string) (map[string]Position, bool, error) {
	created := false
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("read waypoints %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, false, fmt.Errorf("create waypoints dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultWaypointsYAML), 0o644); err != nil {
			return nil, false, fmt.Errorf("write waypoints %s: %w", path, err)
		}
		data = []byte(defaultWaypointsYAML)
		created = true
	}

	out := make(map[string]Position)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, created, fmt.Errorf("parse waypoints %s: %w", path, err)
	}
	return out, created, nil
}
