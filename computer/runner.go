package computer

import (
	"log"
	"sync"
)

// Runner runs a Computer attached to a Frontend. In developer mode the
// running Computer may be swapped out, and a halted program leaves the
// frontend running until it is swapped or the user quits.
type Runner struct {
	fe    Frontend
	dev   bool
	state StateFunc

	swap     chan *Computer
	swapDone chan bool
	debug    chan debugCmd

	started   chan bool
	startOnce sync.Once
	quit      chan bool
	quitOnce  sync.Once
}

// NewRunner returns a Runner that drives fe. If f is non-nil it receives
// the CPU state while programs run.
func NewRunner(fe Frontend, devMode bool, f StateFunc) *Runner {
	return &Runner{
		fe:       fe,
		dev:      devMode,
		state:    f,
		swap:     make(chan *Computer),
		swapDone: make(chan bool),
		debug:    make(chan debugCmd),
		started:  make(chan bool),
		quit:     make(chan bool),
	}
}

// Stop halts the running program and makes Run return.
func (r *Runner) Stop() {
	r.quitOnce.Do(func() { close(r.quit) })
}

// Swap replaces the running Computer with c.
// It may only be called in developer mode while Run is active.
func (r *Runner) Swap(c *Computer) {
	if !r.dev {
		panic("Swap called while not running in dev mode")
	}
	r.swap <- c
	<-r.swapDone
}

// Debug sends a debugger command to the running Computer. The address is
// used by the break command; a negative address clears the breakpoint.
// Commands sent before Run is called are dropped.
func (r *Runner) Debug(cmd string, addr int) {
	select {
	case <-r.started:
	default:
		log.Printf("debug: %q: not running", cmd)
		return
	}
	select {
	case r.debug <- debugCmd{cmd: cmd, addr: addr}:
	case <-r.quit:
	}
}

// Run executes c and drives the frontend until the program halts (outside
// developer mode) or the frontend exits. It returns the error that halted
// the program, if any.
func (r *Runner) Run(c *Computer) error {
	var (
		exit    = make(chan bool)
		stop    = make(chan bool)
		done    = make(chan bool)
		haltErr error
	)
	r.startOnce.Do(func() { close(r.started) })
	go func() {
		defer close(done)
		var (
			execErr = make(chan error)
			running = true
		)
		go func() { execErr <- c.Exec(r.fe, r.state) }()
		for {
			select {
			case newC := <-r.swap:
				if running {
					c.Halt()
					<-execErr
				}
				c = newC
				running = true
				go func() { execErr <- c.Exec(r.fe, r.state) }()
				r.swapDone <- true
			case cmd := <-r.debug:
				if running {
					select {
					case c.debug <- cmd:
					case err := <-execErr:
						running = false
						log.Printf("hack: %v", err)
					}
				}
			case err := <-execErr:
				running = false
				if r.dev {
					log.Printf("hack: %v", err)
					continue
				}
				haltErr = err
				close(exit)
				return
			case <-r.quit:
				if running {
					c.Halt()
					<-execErr
				}
				close(exit)
				return
			case <-stop:
				if running {
					c.Halt()
					<-execErr
				}
				return
			}
		}
	}()

	// The frontend drives the main goroutine until exit is closed or the
	// user quits.
	feErr := r.fe.Run(exit)
	select {
	case <-done:
	default:
		close(stop)
		<-done
	}
	if feErr != nil {
		return feErr
	}
	return haltErr
}
