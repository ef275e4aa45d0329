package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	"github.com/vanderheijden86/edgerecord/pkg/config"
	"github.com/vanderheijden86/edgerecord/pkg/debug"
	"github.com/vanderheijden86/edgerecord/pkg/export"
	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/metrics"
	"github.com/vanderheijden86/edgerecord/pkg/ui"
	"github.com/vanderheijden86/edgerecord/pkg/version"
	"github.com/vanderheijden86/edgerecord/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	scenarioFlag := flag.String("scenario", "", "Start scenario (smart-city or utility)")
	pickFlag := flag.Bool("pick", false, "Choose the start scenario from a menu")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/edgerecord/config.yaml)")
	fixturesPath := flag.String("fixtures", "", "Fixture override file, reloaded on change")
	robotFixtures := flag.Bool("robot-fixtures", false, "Print the scenario's fixture tables as JSON and exit")
	robotSimulate := flag.Bool("robot-simulate", false, "Run the animations headless, printing JSON lines")
	robotTicks := flag.Int("robot-ticks", 10, "Ticks per animation for --robot-simulate (0 = until interrupted)")
	exportDiagram := flag.String("export-diagram", "", "Write the architecture diagram to an .svg or .png file and exit")
	stageFlag := flag.Int("stage", -1, "Data-flow stage highlighted by --export-diagram (-1 for none)")
	flag.Parse()
	defer debug.Sync()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: edgerecord [options]")
		fmt.Println("\nA terminal walkthrough of the edge-to-cloud-to-record demo.")
		flag.PrintDefaults()
		fmt.Printf("\nSet EDGEREC_DEBUG=1 to log to %s\n", debug.LogPath())
		return
	}

	if *versionFlag {
		fmt.Printf("edgerecord %s\n", version.Version)
		return
	}

	debug.Section("edgerecord " + version.Version)
	defer func() { debug.Dump("metrics", metrics.Snapshot()) }()

	cfg := loadConfig(*configPath)
	debug.Dump("config", cfg)

	if *scenarioFlag != "" {
		sc, err := fixture.ParseScenario(*scenarioFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		cfg.UI.DefaultScenario = string(sc)
	}

	overridePath := cfg.Fixtures.OverridePath
	if *fixturesPath != "" {
		overridePath = *fixturesPath
	}
	store, overrideErr := loadStore(overridePath)

	robot := *robotFixtures || *robotSimulate || *exportDiagram != ""
	if robot && overrideErr != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", overrideErr)
		os.Exit(1)
	}

	if *pickFlag {
		sc, err := pickScenario(store, cfg.Scenario())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scenario picker: %v\n", err)
			os.Exit(1)
		}
		cfg.UI.DefaultScenario = string(sc)
	}

	switch {
	case *robotFixtures:
		if err := writeFixturesJSON(os.Stdout, store, cfg.Scenario()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return

	case *robotSimulate:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := runSimulation(ctx, os.Stdout, store, cfg, cfg.Scenario(), *robotTicks)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return

	case *exportDiagram != "":
		err := export.SaveDiagram(export.DiagramOptions{
			Path:     *exportDiagram,
			Store:    store,
			Scenario: cfg.Scenario(),
			Stage:    *stageFlag,
			Dark:     cfg.UI.DarkMode,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting diagram: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportDiagram)
		return
	}

	// Launch TUI
	m := ui.NewModel(store, cfg)
	if overrideErr != nil {
		m = m.WithStatus(fmt.Sprintf("Using built-in fixtures: %v", overrideErr), true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if overridePath != "" && cfg.Fixtures.Watch {
		w, err := watcher.New(overridePath,
			watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
		)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			debug.Log("fixture watch disabled: %v", err)
		} else {
			m = m.WithWatcher(w, fixture.Default(), overridePath)
		}
	}
	defer m.Stop()

	start := time.Now()
	err := runTUIProgram(m)
	debug.LogTiming("tui session", time.Since(start))
	if err != nil {
		fmt.Printf("Error running edgerecord: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads path, or the XDG config when path is empty. A missing or
// broken config is not fatal.
func loadConfig(path string) config.Config {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		debug.Log("config: %v, using defaults", err)
		return config.DefaultConfig()
	}
	return cfg
}

// loadStore layers the override at path over the embedded tables. On error
// the embedded tables are returned together with the error.
func loadStore(path string) (*fixture.Store, error) {
	base := fixture.Default()
	if path == "" {
		return base, nil
	}
	s, err := fixture.LoadOverride(base, path)
	if err != nil {
		return base, err
	}
	return s, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set EDGEREC_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("EDGEREC_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
