package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ising/internal/compute"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/mc"
)

func newSim(t *testing.T, mode lattice.InitMode) *ising.Model {
	t.Helper()
	sim, err := ising.New(8, 8, 1, mode, ising.WithSeed(3), ising.WithBackend(compute.Serial{}))
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return sim
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewLiveValidates(t *testing.T) {
	if _, err := newLive(nil, Options{Temperature: 2}); !errors.Is(err, mc.ErrNilModel) {
		t.Errorf("expected ErrNilModel, got %v", err)
	}
	sim := newSim(t, lattice.Cold)
	if _, err := newLive(sim, Options{Temperature: 0}); !errors.Is(err, mc.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := newLive(sim, Options{Temperature: 2, Algorithm: "glauber"}); !errors.Is(err, mc.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestTickAdvances(t *testing.T) {
	m, err := newLive(newSim(t, lattice.Hot), Options{Temperature: 2.27, StepsPerFrame: 3})
	if err != nil {
		t.Fatal(err)
	}

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if m.step != 3 {
		t.Errorf("expected 3 steps, got %d", m.step)
	}
	if len(m.history) != 1 {
		t.Errorf("expected one history sample, got %d", len(m.history))
	}
}

func TestPauseStopsStepping(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Hot), Options{Temperature: 2, StepsPerFrame: 1})

	m.Update(key(" "))
	if !m.paused {
		t.Fatal("expected paused")
	}
	m.Update(tickMsg(time.Now()))
	if m.step != 0 {
		t.Errorf("paused view stepped %d times", m.step)
	}

	m.Update(key("s"))
	if m.step != 1 {
		t.Errorf("single step while paused: got %d", m.step)
	}
}

func TestSingleStepKeyRunsOneStep(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Hot), Options{Temperature: 2, Algorithm: "metropolis"})

	m.Update(key("s"))
	if m.step != 0 {
		t.Errorf("s while running should not step, got %d", m.step)
	}

	m.Update(key("p"))
	m.Update(key("s"))
	if m.step != 1 {
		t.Errorf("expected exactly one step, got %d", m.step)
	}
	if len(m.history) != 1 {
		t.Errorf("expected one history sample, got %d", len(m.history))
	}
}

func TestMaxSteps(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Hot), Options{Temperature: 2, Algorithm: "metropolis", MaxSteps: 10})

	for i := 0; i < 3; i++ {
		m.Update(tickMsg(time.Now()))
	}
	if m.step != 10 {
		t.Errorf("expected to stop at 10 steps, got %d", m.step)
	}
	if !strings.Contains(m.View(), "done") {
		t.Error("expected done status")
	}
}

func TestTemperatureKeys(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Cold), Options{Temperature: 0.1})

	m.Update(key("+"))
	if m.temperature <= 0.1 {
		t.Errorf("expected temperature to rise, got %f", m.temperature)
	}
	for i := 0; i < 10; i++ {
		m.Update(key("-"))
	}
	if m.temperature != minTemp {
		t.Errorf("expected clamp at %f, got %f", minTemp, m.temperature)
	}
}

func TestToggleAlgorithm(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Cold), Options{Temperature: 2})
	if m.algorithm != mc.AlgorithmWolff {
		t.Fatalf("expected wolff default, got %s", m.algorithm)
	}

	m.Update(key("a"))
	if m.algorithm != mc.AlgorithmMetropolis || m.stepper.Name() != "metropolis" {
		t.Errorf("expected metropolis, got %s", m.algorithm)
	}
	if m.stepsPerFrame() != 64 {
		t.Errorf("expected one sweep per frame, got %d", m.stepsPerFrame())
	}
}

func TestFlipAndReset(t *testing.T) {
	sim := newSim(t, lattice.Cold)
	m, _ := newLive(sim, Options{Temperature: 2})

	m.Update(key("f"))
	if got := sim.Magnetization(); got != -1 {
		t.Errorf("expected magnetization -1 after flip, got %f", got)
	}

	m.Update(tickMsg(time.Now()))
	m.Update(key("r"))
	if m.sim == sim {
		t.Error("reset kept the old model")
	}
	if m.step != 0 || len(m.history) != 0 {
		t.Errorf("reset left step=%d history=%d", m.step, len(m.history))
	}
}

func TestQuit(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Cold), Options{Temperature: 2})

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView(t *testing.T) {
	m, _ := newLive(newSim(t, lattice.Cold), Options{Temperature: 1.5, Theme: "mono"})

	view := m.View()
	for _, want := range []string{"ising 8x8", "1.500", "wolff", "q quit", "╭", "◆"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Update(key("t"))
	if m.theme.Name == "mono" {
		t.Error("theme did not cycle")
	}
}
