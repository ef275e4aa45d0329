package main

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func scenarioOptions(store *fixture.Store) []huh.Option[fixture.Scenario] {
	opts := make([]huh.Option[fixture.Scenario], 0, len(fixture.Scenarios()))
	for _, sc := range fixture.Scenarios() {
		info := store.Info(sc)
		opts = append(opts, huh.NewOption(info.Title+" · "+info.Subtitle, sc))
	}
	return opts
}

// pickScenario asks for the start scenario, preselecting current.
func pickScenario(store *fixture.Store, current fixture.Scenario) (fixture.Scenario, error) {
	choice := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[fixture.Scenario]().
				Title("Which scenario do you want to walk through?").
				Options(scenarioOptions(store)...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return current, err
	}
	return choice, nil
}
