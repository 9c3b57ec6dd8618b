// Package container wires core armature services using go.uber.org/dig.
package container

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/armature/armature/internal/arm"
	"github.com/armature/armature/internal/bus"
	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/gateway"
	"github.com/armature/armature/internal/interpreter"
	"github.com/armature/armature/internal/providers"
	"github.com/armature/armature/internal/schedule"
	"github.com/armature/armature/internal/schema"
	"github.com/armature/armature/internal/toolkit"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider    schema.ChatProvider
	cmdBus      bus.Bus
	interp      *interpreter.Interpreter
	loop        *interpreter.Loop
	gatewaySrv  *gateway.Server
	scheduleSvc *schedule.Service
}

func (c *Container) Provider() schema.ChatProvider         { return c.provider }
func (c *Container) Bus() bus.Bus                          { return c.cmdBus }
func (c *Container) Interpreter() *interpreter.Interpreter { return c.interp }
func (c *Container) Loop() *interpreter.Loop               { return c.loop }
func (c *Container) Gateway() *gateway.Server              { return c.gatewaySrv }
func (c *Container) Schedule() *schedule.Service           { return c.scheduleSvc }

// waypointSet is a named type so dig can distinguish the waypoint map from
// other maps in the graph.
type waypointSet map[string]arm.Position

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(newController); err != nil {
		return nil, err
	}
	if err := d.Provide(loadWaypoints); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newInterpreter); err != nil {
		return nil, err
	}
	if err := d.Provide(newCommandBus); err != nil {
		return nil, err
	}
	if err := d.Provide(interpreter.NewLoop); err != nil {
		return nil, err
	}
	if err := d.Provide(newGateway); err != nil {
		return nil, err
	}
	if err := d.Provide(newScheduleService); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.ChatProvider,
		cmdBus bus.Bus,
		interp *interpreter.Interpreter,
		loop *interpreter.Loop,
		gatewaySrv *gateway.Server,
		scheduleSvc *schedule.Service,
	) {
		result = &Container{
			provider:    provider,
			cmdBus:      cmdBus,
			interp:      interp,
			loop:        loop,
			gatewaySrv:  gatewaySrv,
			scheduleSvc: scheduleSvc,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) schema.ChatProvider {
	return providers.New(providers.Params{
		Kind:    cfg.Provider.Kind,
		Host:    cfg.Provider.Host,
		APIKey:  cfg.Provider.APIKey,
		APIBase: cfg.Provider.APIBase,
		Model:   cfg.Interpreter.Model,
	})
}

func newController() arm.Controller {
	// A simulated arm until a hardware controller lands.
	return arm.NewSim()
}

func loadWaypoints(cfg *config.Config) (waypointSet, error) {
	wps, _, err := arm.LoadWaypoints(cfg.WaypointsPath())
	if err != nil {
		return nil, fmt.Errorf("load waypoints: %w", err)
	}
	return waypointSet(wps), nil
}

func newToolRegistry(ctrl arm.Controller, wps waypointSet) *toolkit.Registry {
	b := toolkit.NewRegistryBuilder()
	for _, t := range arm.Tools(ctrl, wps) {
		b.WithTool(t)
	}
	return b.Build()
}

func newInterpreter(cfg *config.Config, p schema.ChatProvider, reg *toolkit.Registry) *interpreter.Interpreter {
	settings := schema.Settings{
		Model:       cfg.Interpreter.Model,
		MaxTokens:   cfg.Interpreter.MaxTokens,
		Temperature: cfg.Interpreter.Temperature,
		MaxTurns:    cfg.Interpreter.MaxTurns,
	}
	return interpreter.New(p, settings, reg.All())
}

func newCommandBus() bus.Bus {
	return bus.NewCommandBus(100)
}

func newGateway(cfg *config.Config, b bus.Bus) *gateway.Server {
	return gateway.NewServer(cfg.Gateway.Port, b)
}

// newScheduleService builds the scheduler with fired jobs routed through
// the command bus, so scheduled commands queue behind interactive ones
// instead of driving the arm concurrently.
func newScheduleService(b bus.Bus) *schedule.Service {
	svc := schedule.NewService(config.DataDir() + "/schedule/jobs.json")
	svc.SetOnJob(func(ctx context.Context, job schedule.Job) (string, error) {
		b.PublishCommand(bus.NewCommand("schedule", job.Command))
		return "queued", nil
	})
	return svc
}
