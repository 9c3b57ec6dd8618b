// Package bus carries commands and replies between front-ends and the
// interpreter loop.
package bus

// Command is a natural-language instruction submitted by a front-end
// (gateway client, scheduler, CLI).
type Command struct {
	Source string // "gateway" | "schedule" | "cli"
	Text   string
}

func NewCommand(source, text string) Command {
	return Command{Source: source, Text: text}
}

// ReplyKind distinguishes final replies from intermediate progress and
// hard failures.
type ReplyKind string

const (
	ReplyFinal    ReplyKind = "reply"
	ReplyProgress ReplyKind = "progress"
	ReplyError    ReplyKind = "error"
)

// Reply is one message from the interpreter back to the front-end.
type Reply struct {
	Kind ReplyKind
	Text string
}

func NewReply(text string) Reply    { return Reply{Kind: ReplyFinal, Text: text} }
func NewProgress(text string) Reply { return Reply{Kind: ReplyProgress, Text: text} }
func NewError(text string) Reply    { return Reply{Kind: ReplyError, Text: text} }

// Bus is the contract between front-ends and the interpreter loop.
// Implementations may use buffered channels, pub/sub systems, or any other transport.
type Bus interface {
	// PublishCommand delivers a command to the interpreter.
	PublishCommand(cmd Command)
	// PublishReply delivers a reply from the interpreter to the front-end.
	PublishReply(r Reply)
	// CommandChan returns a receive-only channel for the interpreter to consume.
	CommandChan() <-chan Command
	// ReplyChan returns a receive-only channel for the front-end to consume.
	ReplyChan() <-chan Reply
}

// CommandBus is the default in-process Bus implementation backed by
// buffered Go channels. Front-ends push Commands; the interpreter loop
// consumes them, processes, and pushes Replies back.
type CommandBus struct {
	commands chan Command
	replies  chan Reply
}

func NewCommandBus(bufSize int) Bus {
	return &CommandBus{
		commands: make(chan Command, bufSize),
		replies:  make(chan Reply, bufSize),
	}
}

// PublishCommand sends a Command to the interpreter loop.
func (b *CommandBus) PublishCommand(cmd Command) {
	b.commands <- cmd
}

// PublishReply sends a Reply to the front-end.
func (b *CommandBus) PublishReply(r Reply) {
	b.replies <- r
}

// CommandChan returns a receive-only view of the command channel.
func (b *CommandBus) CommandChan() <-chan Command {
	return b.commands
}

// ReplyChan returns a receive-only view of the reply channel.
func (b *CommandBus) ReplyChan() <-chan Reply {
	return b.replies
}
