// Command hackfill runs the Hack keyboard fill program: while any key is
// held the screen is black, otherwise it is white.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"golang.org/x/term"

	"github.com/nf/hackfill/asm"
	"github.com/nf/hackfill/computer"
	"github.com/nf/hackfill/fill"
)

func main() {
	log.SetPrefix("hackfill: ")
	log.SetFlags(0)

	var (
		cliFlag      = flag.Bool("cli", false, "render in the terminal instead of a window")
		headlessFlag = flag.Bool("headless", false, "run without any display")
		cpuFlag      = flag.Bool("cpu", false, "run the bundled Fill.asm on the Hack CPU")
		devFlag      = flag.Bool("dev", false, "enable developer mode (live re-assemble and debug an .asm program)")
		outFlag      = flag.String("o", "", "assemble the program to `file` and exit")
		speedFlag    = flag.Int("speed", 1<<17, "CPU instructions executed per frame")
		scaleFlag    = flag.Int("scale", 2, "window pixels per screen pixel")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] [-headless] [-speed n] [program.hack | program.asm]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -cpu\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -o out.hack program.asm\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-cli] -dev program.asm\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() > 1 || *speedFlag < 1 || *scaleFlag < 1 {
		flag.Usage()
	}
	if (*devFlag || *outFlag != "") && flag.NArg() != 1 {
		flag.Usage()
	}
	if *cpuFlag && flag.NArg() != 0 {
		flag.Usage()
	}

	if out := *outFlag; out != "" {
		if err := assembleTo(out, flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *cliFlag && !*headlessFlag && !*devFlag && !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatal("-cli requires a terminal")
	}

	if *devFlag {
		// The debugger occupies the terminal.
		var fe computer.Frontend = computer.NewGUI("hackfill", *scaleFlag)
		if *cliFlag || *headlessFlag {
			fe = computer.NewHeadless(time.Second/60, nil, nil)
		}
		if err := devMode(fe, flag.Arg(0), *speedFlag); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	var fe computer.Frontend
	switch {
	case *headlessFlag:
		fe = computer.NewHeadless(time.Second/60, nil, logScreen())
	case *cliFlag:
		fe = computer.NewTerminal()
	default:
		fe = computer.NewGUI("hackfill", *scaleFlag)
	}
	err := run(fe, flag.Arg(0), *cpuFlag, *speedFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(fe computer.Frontend, file string, cpu bool, speed int) error {
	var c *computer.Computer
	switch {
	case file != "":
		code, err := load(file)
		if err != nil {
			return err
		}
		c = computer.NewCPU(code, speed)
	case cpu:
		p, err := asm.Assemble(fill.Source)
		if err != nil {
			return err
		}
		c = computer.NewCPU(p.Code, speed)
	default:
		c = computer.NewFill()
	}
	return computer.NewRunner(fe, false, nil).Run(c)
}

// load reads a program from a .asm source file or a .hack binary file.
func load(name string) ([]uint16, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(name) == ".asm" {
		p, err := asm.Assemble(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		return p.Code, nil
	}
	code, err := asm.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return code, nil
}

func assembleTo(out, asmFile string) error {
	p, err := assembleFile(asmFile)
	if err != nil {
		return fmt.Errorf("%s: %v", asmFile, err)
	}
	var b bytes.Buffer
	if err := asm.Encode(&b, p.Code); err != nil {
		return err
	}
	return os.WriteFile(out, b.Bytes(), 0o644)
}

// logScreen returns a headless frame func that logs each time the screen
// turns entirely black or white.
func logScreen() func(int, *computer.Computer) bool {
	var last int16 = 1 // neither Lit nor Cleared
	return func(n int, c *computer.Computer) bool {
		s := c.Mem.Screen()
		v := s[0]
		for _, w := range s {
			if w != v {
				return true
			}
		}
		if v != last && (v == fill.Lit || v == fill.Cleared) {
			if v == fill.Lit {
				log.Printf("frame %d: screen black", n)
			} else {
				log.Printf("frame %d: screen white", n)
			}
			last = v
		}
		return true
	}
}
