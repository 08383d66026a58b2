package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ghosthunt/pkg/sim"
)

// Shell provides ishell backed interactive shell over a simulated
// World.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell   *ishell.Shell
	World   *sim.World
	Running *RunLoop
}

// RunLoop is the World running in real time.
type RunLoop struct {
	Ctx    context.Context
	Cancel func()
	Done   chan error
}

const (
	shellKey      = "$shell"
	pausedPrompt  = "[paused] > "
	runningPrompt = "[running] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&RunCmd,
		&PauseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(w *sim.World) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
		World: w,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(pausedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// WithBoard wraps command func requires a board name as first arg.
func WithBoard(fn func(c *ishell.Context, b *sim.Board, args []string)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("BOARD required"))
			return
		}
		b := ShellFrom(c).World.Board(c.Args[0])
		if b == nil {
			c.Err(fmt.Errorf("unknown board %q", c.Args[0]))
			return
		}
		fn(c, b, c.Args[1:])
	}
}

// Print prints v as JSON if requested, or its String form.
func Print(c *ishell.Context, v fmt.Stringer) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v.String())
}

// Start runs the World in real time.
func (s *Shell) Start() {
	if s.Running != nil {
		return
	}
	r := &RunLoop{Done: make(chan error, 1)}
	r.Ctx, r.Cancel = context.WithCancel(context.Background())
	s.Running = r
	go func() {
		r.Done <- s.World.Run(r.Ctx)
	}()
	s.Shell.SetPrompt(runningPrompt)
}

// Pause stops running the World in real time.
func (s *Shell) Pause() {
	if s.Running != nil {
		s.Running.Cancel()
		<-s.Running.Done
		s.Running = nil
		s.Shell.SetPrompt(pausedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		s.Pause()
		return
	}
	log.Fatalln("command expected")
}

var (
	// RunCmd runs the world in real time.
	RunCmd = ishell.Cmd{
		Name:    "run",
		Aliases: []string{"r"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Start()
		},
	}

	// PauseCmd pauses the world.
	PauseCmd = ishell.Cmd{
		Name:    "pause",
		Aliases: []string{"p"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Pause()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	w, err := sim.NewConfig().NewWorld()
	if err != nil {
		log.Fatalln(err)
	}
	New(w).Run(flag.Args()...)
}
