package arm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/armature/armature/internal/schema"
	"github.com/armature/armature/internal/toolkit"
)

// Tools builds the model-callable tool set over a controller. Waypoint
// names become the goto_waypoint enum, so the model can only ask for
// positions that actually exist.
func Tools(c Controller, waypoints map[string]Position) []schema.Tool {
	return []schema.Tool{
		moveToTool(c),
		gripTool(c),
		releaseTool(c),
		getPositionTool(c),
		scanObjectsTool(c),
		gotoWaypointTool(c, waypoints),
		homeTool(c, waypoints),
	}
}

func moveToTool(c Controller) schema.Tool {
	spec := toolkit.NewSpec("move_to",
		"Move the arm effector to an absolute position in metres from the base.").
		Param("x", toolkit.TypeNumber, "Target x coordinate in metres").
		Param("y", toolkit.TypeNumber, "Target y coordinate in metres").
		Param("z", toolkit.TypeNumber, "Target z coordinate in metres, 0 is the work surface")
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		p := Position{
			X: args["x"].(float64),
			Y: args["y"].(float64),
			Z: args["z"].(float64),
		}
		if err := c.MoveTo(p); err != nil {
			return "", err
		}
		return fmt.Sprintf("arm moved to %s", p), nil
	})
}

func gripTool(c Controller) schema.Tool {
	spec := toolkit.NewSpec("grip",
		"Close the gripper to pick up the object at the current position.").
		Optional("force", toolkit.TypeNumber, "Grip force between 0 and 1", 0.5)
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		name, err := c.Grip(args["force"].(float64))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("gripped %s", name), nil
	})
}

func releaseTool(c Controller) schema.Tool {
	spec := toolkit.NewSpec("release",
		"Open the gripper, releasing any held object at the current position.")
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		name, err := c.Release()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("released %s", name), nil
	})
}

func getPositionTool(c Controller) schema.Tool {
	spec := toolkit.NewSpec("get_position",
		"Report the current effector position in metres from the base.")
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		return c.Position().String(), nil
	})
}

func scanObjectsTool(c Controller) schema.Tool {
	spec := toolkit.NewSpec("scan_objects",
		"List every object visible to the arm with its position.")
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		objects := c.Scan()
		if len(objects) == 0 {
			return "no objects detected", nil
		}
		parts := make([]string, 0, len(objects))
		for _, o := range objects {
			parts = append(parts, fmt.Sprintf("%s at %s", o.Name, o.Pos))
		}
		return strings.Join(parts, "; "), nil
	})
}

func gotoWaypointTool(c Controller, waypoints map[string]Position) schema.Tool {
	names := make([]string, 0, len(waypoints))
	for name := range waypoints {
		names = append(names, name)
	}
	sort.Strings(names)

	spec := toolkit.NewSpec("goto_waypoint",
		"Move the arm to a named waypoint.").
		Enum("name", "Waypoint to move to", names...)
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		name := args["name"].(string)
		p, ok := waypoints[name]
		if !ok {
			return "", fmt.Errorf("no waypoint named %q", name)
		}
		if err := c.MoveTo(p); err != nil {
			return "", err
		}
		return fmt.Sprintf("arm at waypoint %s %s", name, p), nil
	})
}

// homeTool parks the arm at the "home" waypoint, or the origin when no
// such waypoint is defined.
func homeTool(c Controller, waypoints map[string]Position) schema.Tool {
	spec := toolkit.NewSpec("home",
		"Return the arm to its home position.")
	return toolkit.NewFunc(spec, func(ctx context.Context, args map[string]any) (string, error) {
		p := waypoints["home"]
		if err := c.MoveTo(p); err != nil {
			return "", err
		}
		return fmt.Sprintf("arm homed at %s", p), nil
	})
}
