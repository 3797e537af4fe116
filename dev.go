package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/hackfill/asm"
	"github.com/nf/hackfill/computer"
)

// devMode runs asmFile on the CPU under the debugger, reassembling and
// restarting it each time the file changes.
func devMode(fe computer.Frontend, asmFile string, speed int) error {
	asmFile = filepath.Clean(asmFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(asmFile)); err != nil {
		return err
	}

	debug := newDebugger()
	runner := computer.NewRunner(fe, true, debug.StateFunc)
	debug.run = runner
	log.SetPrefix("")
	log.SetOutput(debug.log)
	debugDone := make(chan bool)
	go func() {
		defer close(debugDone)
		if err := debug.Run(); err != nil {
			log.Fatalf("debug: %v", err)
		}
		log.SetOutput(os.Stderr)
		log.SetPrefix("hackfill: ")
		runner.Stop()
	}()

	progCh := make(chan []uint16)
	go func() {
		started := false
		run := time.After(1 * time.Millisecond)
		for {
			select {
			case <-run:
				log.Printf("dev: assemble %s", filepath.Base(asmFile))
				p, err := assembleFile(asmFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				debug.setSymbols(p.Symbols)
				if !started {
					log.Printf("dev: start")
					progCh <- p.Code
					started = true
				} else {
					log.Printf("dev: reset")
					runner.Swap(computer.NewCPU(p.Code, speed))
				}
			case ev := <-watcher.Event:
				if ev.Name == asmFile && !ev.IsAttrib() {
					run = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	select {
	case code := <-progCh:
		return runner.Run(computer.NewCPU(code, speed))
	case <-debugDone:
		return nil
	}
}

func assembleFile(name string) (*asm.Program, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return asm.Assemble(src)
}
