package interpreter

import (
	"context"
	"log/slog"

	"github.com/armature/armature/internal/bus"
	"github.com/armature/armature/internal/shared/llmutils"
)

// Loop consumes commands from the bus and feeds them to one Interpreter,
// publishing progress and final replies. Commands are processed strictly
// sequentially: the arm cannot execute two conversations at once.
type Loop struct {
	bus    bus.Bus
	interp *Interpreter
}

func NewLoop(b bus.Bus, interp *Interpreter) *Loop {
	return &Loop{bus: b, interp: interp}
}

// Run blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("Interpreter loop started")

	for {
		select {
		case cmd := <-l.bus.CommandChan():
			l.handle(ctx, cmd)
		case <-ctx.Done():
			slog.Info("Interpreter loop stopping")
			return ctx.Err()
		}
	}
}

func (l *Loop) handle(ctx context.Context, cmd bus.Command) {
	slog.Info("Processing command", "source", cmd.Source, "content", llmutils.Truncate(cmd.Text, 80))

	reply, err := l.interp.RunWithProgress(ctx, cmd.Text, func(s string) {
		l.bus.PublishReply(bus.NewProgress(s))
	})
	if err != nil {
		slog.Error("Command failed", "source", cmd.Source, "err", err)
		l.bus.PublishReply(bus.NewError(err.Error()))
		return
	}

	l.bus.PublishReply(bus.NewReply(llmutils.StringOrDefault(reply, "Command completed with no response.")))
}
