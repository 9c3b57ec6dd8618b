// Package arm exposes a robotic arm to the interpreter as a set of
// model-callable tools. The Sim controller stands in for real hardware;
// anything satisfying Controller can be swapped in behind the same tools.
package arm

import (
	"fmt"
	"math"
	"sync"
)

// Position is a point in the arm's workspace, metres from the base.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

func (p Position) distanceTo(o Position) float64 {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Object is something the arm can see and manipulate.
type Object struct {
	Name string
	Pos  Position
}

// Controller is the hardware abstraction behind the arm tools.
// Implementations must tolerate sequential calls from a single goroutine;
// errors are reported to the model, so messages should be self-contained.
type Controller interface {
	// MoveTo drives the effector to p. Fails when p is outside the
	// reachable envelope.
	MoveTo(p Position) error
	// Grip closes the gripper with the given force (0..1]. Returns the
	// name of the object gripped, or fails when nothing is in range or
	// something is already held.
	Grip(force float64) (string, error)
	// Release opens the gripper, dropping any held object at the current
	// position. Returns the name of the released object, or fails when
	// the gripper is empty.
	Release() (string, error)
	// Position reports the current effector position.
	Position() Position
	// Scan reports every object the arm can see, including a held one.
	Scan() []Object
}

const (
	// simReach is the radius of the simulated arm's reachable envelope.
	simReach = 0.8
	// simGripRange is how close the effector must be to pick an object up.
	simGripRange = 0.05
)

// Sim is an in-memory Controller for development and tests.
type Sim struct {
	mu      sync.Mutex
	pos     Position
	held    string
	objects []Object
}

// NewSim creates a simulated arm parked at the origin with a small scene
// of objects to manipulate.
func NewSim() *Sim {
	return &Sim{
		objects: []Object{
			{Name: "red_cube", Pos: Position{X: 0.20, Y: 0.30, Z: 0.00}},
			{Name: "blue_ball", Pos: Position{X: -0.15, Y: 0.25, Z: 0.00}},
			{Name: "green_cylinder", Pos: Position{X: 0.05, Y: 0.40, Z: 0.00}},
		},
	}
}

// SetScene replaces the simulated objects. Intended for tests.
func (s *Sim) SetScene(objects []Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append([]Object(nil), objects...)
}

func (s *Sim) MoveTo(p Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Z < 0 {
		return fmt.Errorf("target %s is below the work surface", p)
	}
	if dist := (Position{}).distanceTo(p); dist > simReach {
		return fmt.Errorf("target %s is out of reach (%.3fm > %.3fm)", p, dist, simReach)
	}

	s.pos = p
	// A held object travels with the effector.
	if s.held != "" {
		for i := range s.objects {
			if s.objects[i].Name == s.held {
				s.objects[i].Pos = p
				break
			}
		}
	}
	return nil
}

func (s *Sim) Grip(force float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if force <= 0 || force > 1 {
		return "", fmt.Errorf("grip force %.2f outside (0, 1]", force)
	}
	if s.held != "" {
		return "", fmt.Errorf("already holding %s", s.held)
	}

	for i := range s.objects {
		if s.pos.distanceTo(s.objects[i].Pos) <= simGripRange {
			s.held = s.objects[i].Name
			s.objects[i].Pos = s.pos
			return s.held, nil
		}
	}
	return "", fmt.Errorf("nothing within grip range of %s", s.pos)
}

func (s *Sim) Release() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.held == "" {
		return "", fmt.Errorf("gripper is empty")
	}
	released := s.held
	s.held = ""
	return released, nil
}

func (s *Sim) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *Sim) Scan() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Object(nil), s.objects...)
}

// Held reports the currently gripped object, or "".
func (s *Sim) Held() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}
