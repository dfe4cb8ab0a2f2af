package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wmedrano/bats-go/command"
	"github.com/wmedrano/bats-go/dsp"
	"github.com/wmedrano/bats-go/engine"
	"github.com/wmedrano/bats-go/gomidi"
	"github.com/wmedrano/bats-go/instrument"
	"github.com/wmedrano/bats-go/oto"
	"github.com/wmedrano/bats-go/version"
)

func main() {
	configFile := flag.String("config", "", "Path to a .yml or .json engine configuration. Defaults are used when empty.")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to the given path and exit.")
	bpm := flag.Float64("bpm", 0, "Override the configured BPM.")
	midiInput := flag.String("midi-input", "", "Prefix of the MIDI input device to open. The first available device is used when empty.")
	listMidi := flag.Bool("list-midi", false, "List the available MIDI input devices and exit.")
	metronome := flag.Bool("metronome", false, "Start with the metronome on.")
	record := flag.Bool("record", false, "Start with recording enabled.")
	versionFlag := flag.Bool("version", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		return
	}

	midiCtx := gomidi.NewContext()
	defer midiCtx.Close()
	if *listMidi {
		for _, name := range midiCtx.InputNames() {
			fmt.Println(name)
		}
		return
	}

	builder := engine.DefaultBuilder()
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open config %v: %v\n", *configFile, err)
			os.Exit(1)
		}
		builder, err = engine.ReadBuilder(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read config %v: %v\n", *configFile, err)
			os.Exit(1)
		}
	}
	if *bpm > 0 {
		builder.BPM = float32(*bpm)
	}
	if *writeConfig != "" {
		f, err := os.Create(*writeConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create %v: %v\n", *writeConfig, err)
			os.Exit(1)
		}
		err = engine.WriteBuilder(f, builder)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not write config %v: %v\n", *writeConfig, err)
			os.Exit(1)
		}
		return
	}

	eng, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build engine: %v\n", err)
		os.Exit(1)
	}
	if err := midiCtx.TryToOpenBy(*midiInput, *midiInput == ""); err != nil {
		fmt.Fprintf(os.Stderr, "no MIDI input: %v\n", err)
	}

	sender, receiver := command.NewQueue()
	undoCh := make(chan command.Command, command.QueueCapacity)

	audioCtx, err := oto.NewContext(int(builder.SampleRate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open audio device: %v\n", err)
		os.Exit(1)
	}
	player := audioCtx.NewPlayer(builder.BufferSize, func(left, right []float32) {
		midiIn := midiCtx.CollectFrames(eng.SampleRate(), len(left))
		for _, undo := range receiver.ExecuteAll(eng) {
			select {
			case undoCh <- undo:
			default:
			}
		}
		eng.Process(midiIn, left, right)
	})
	defer player.Close()

	sender.Send(command.SetArmedTrack{TrackID: 0})
	if *metronome {
		sender.Send(command.ToggleMetronome{})
	}
	if *record {
		sender.Send(command.SetRecording{Enabled: true})
	}

	controlLoop(sender, undoCh, eng.SampleRate())
}

// controlLoop reads commands from stdin until quit or EOF.
func controlLoop(sender command.Sender, undoCh <-chan command.Command, sampleRate dsp.SampleRate) {
	var undoStack command.UndoStack
	fmt.Println("type help for the list of commands")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		for {
			select {
			case undo := <-undoCh:
				undoStack.Push(undo)
				continue
			default:
			}
			break
		}
		switch fields[0] {
		case "quit", "q":
			return
		case "help":
			printHelp()
		case "bpm":
			if v, ok := parseFloat(fields, 1); ok {
				sender.Send(command.SetTransportBPM{BPM: v})
			}
		case "metronome":
			sender.Send(command.ToggleMetronome{})
		case "vol":
			track, okTrack := parseInt(fields, 1)
			v, okVol := parseFloat(fields, 2)
			if okTrack && okVol {
				sender.Send(command.SetTrackVolume{TrackID: track, Volume: v})
			}
		case "arm":
			if track, ok := parseInt(fields, 1); ok {
				sender.Send(command.SetArmedTrack{TrackID: track})
			}
		case "plugin":
			track, okTrack := parseInt(fields, 1)
			if !okTrack || len(fields) < 3 {
				fmt.Println("usage: plugin <track> <kind>")
				continue
			}
			kind := instrument.Kind(fields[2])
			if err := kind.Validate(); err != nil {
				fmt.Println(err)
				continue
			}
			sender.Send(command.SetPlugin{TrackID: track, Plugin: instrument.NewPlugin(kind, sampleRate)})
		case "param":
			track, okTrack := parseInt(fields, 1)
			id, okID := parseInt(fields, 2)
			v, okValue := parseFloat(fields, 3)
			if okTrack && okID && okValue {
				sender.Send(command.SetParam{TrackID: track, ParamID: uint32(id), Value: v})
			}
		case "record":
			if len(fields) == 2 {
				sender.Send(command.SetRecording{Enabled: fields[1] == "on"})
			}
		case "undo":
			if cmd, ok := undoStack.Pop(); ok {
				sender.Send(cmd)
			} else {
				fmt.Println("nothing to undo")
			}
		default:
			fmt.Printf("unknown command %q, type help for the list of commands\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`bpm <value>              set the tempo
metronome                toggle the metronome
vol <track> <value>      set a track volume
arm <track>              select the track receiving MIDI input
plugin <track> <kind>    assign an instrument (empty, toof)
param <track> <id> <v>   set an instrument parameter
record on|off            enable or disable recording
undo                     undo the last change
quit                     exit`)
}

func parseFloat(fields []string, i int) (float32, bool) {
	if i >= len(fields) {
		fmt.Println("missing argument")
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[i], 32)
	if err != nil {
		fmt.Printf("invalid number %q\n", fields[i])
		return 0, false
	}
	return float32(v), true
}

func parseInt(fields []string, i int) (int, bool) {
	if i >= len(fields) {
		fmt.Println("missing argument")
		return 0, false
	}
	v, err := strconv.Atoi(fields[i])
	if err != nil {
		fmt.Printf("invalid number %q\n", fields[i])
		return 0, false
	}
	return v, true
}
