package tui

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/mc"
	"github.com/san-kum/ising/internal/viz"
)

const (
	historyLen = 60
	minTemp    = 0.05
	tempStep   = 0.05
	frameRate  = 30
)

var cyan = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

// Options configures the live view.
type Options struct {
	Temperature float64
	Algorithm   string
	Theme       string
	// StepsPerFrame is the number of driver steps run per frame. Zero picks
	// one lattice sweep for metropolis and a handful of clusters for wolff.
	StepsPerFrame int
	// MaxSteps stops stepping once reached. Zero runs until quit.
	MaxSteps int
}

type model struct {
	sim      *ising.Model
	registry *mc.Registry
	stepper  mc.Stepper
	rng      *rand.Rand

	temperature float64
	algorithm   string
	theme       viz.Theme
	perFrame    int
	maxSteps    int

	paused  bool
	braille bool
	step    int
	flipped int
	history []float64
	err     error

	width  int
	height int
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// NewLive returns a bubbletea model that animates sim in place.
func NewLive(sim *ising.Model, opts Options) (tea.Model, error) {
	return newLive(sim, opts)
}

func newLive(sim *ising.Model, opts Options) (*model, error) {
	if sim == nil {
		return nil, mc.ErrNilModel
	}
	if !(opts.Temperature > 0) {
		return nil, &mc.ConfigError{Field: "Temperature", Value: opts.Temperature}
	}
	if opts.Algorithm == "" {
		opts.Algorithm = mc.AlgorithmWolff
	}

	registry := mc.NewRegistry()
	stepper, err := registry.Get(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	rows, cols := sim.Dims()
	return &model{
		sim:         sim,
		registry:    registry,
		stepper:     stepper,
		rng:         rand.New(rand.NewSource(sim.Seed())),
		temperature: opts.Temperature,
		algorithm:   opts.Algorithm,
		theme:       viz.GetTheme(opts.Theme),
		perFrame:    opts.StepsPerFrame,
		maxSteps:    opts.MaxSteps,
		braille:     cols > 60 || rows > 40,
		history:     make([]float64, 0, historyLen),
		width:       80,
		height:      24,
	}, nil
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && !m.done() {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "+", "=", "up":
		m.temperature += tempStep
	case "-", "_", "down":
		m.temperature = math.Max(m.temperature-tempStep, minTemp)
	case "a":
		m.toggleAlgorithm()
	case "t":
		m.cycleTheme()
	case "b":
		m.braille = !m.braille
	case "f":
		m.sim.FlipAll()
	case "r":
		m.reset()
	case "s":
		if m.paused {
			m.stepOnce()
		}
	}
	return nil
}

func (m *model) done() bool {
	return m.maxSteps > 0 && m.step >= m.maxSteps
}

func (m *model) stepsPerFrame() int {
	if m.perFrame > 0 {
		return m.perFrame
	}
	if m.algorithm == mc.AlgorithmMetropolis {
		return m.sim.Sites()
	}
	return 4
}

// advance runs one frame worth of steps and records |m|.
func (m *model) advance() {
	n := m.stepsPerFrame()
	if m.maxSteps > 0 {
		n = min(n, m.maxSteps-m.step)
	}
	for i := 0; i < n; i++ {
		m.flipped = m.stepper.Step(m.sim, m.temperature)
	}
	m.step += n
	m.sample()
}

// stepOnce runs a single driver step.
func (m *model) stepOnce() {
	if m.done() {
		return
	}
	m.flipped = m.stepper.Step(m.sim, m.temperature)
	m.step++
	m.sample()
}

func (m *model) sample() {
	m.history = append(m.history, m.sim.MeanMagnetization())
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m *model) toggleAlgorithm() {
	next := mc.AlgorithmWolff
	if m.algorithm == mc.AlgorithmWolff {
		next = mc.AlgorithmMetropolis
	}
	stepper, err := m.registry.Get(next)
	if err != nil {
		m.err = err
		return
	}
	m.algorithm = next
	m.stepper = stepper
}

func (m *model) cycleTheme() {
	names := viz.ThemeNames()
	for i, name := range names {
		if name == m.theme.Name {
			m.theme = viz.GetTheme(names[(i+1)%len(names)])
			return
		}
	}
	m.theme = viz.ThemeClassic
}

// reset replaces the lattice with a fresh hot start of the same shape.
func (m *model) reset() {
	rows, cols := m.sim.Dims()
	fresh, err := ising.New(rows, cols, m.sim.J(), lattice.Hot,
		ising.WithSeed(m.rng.Int63()),
		ising.WithBackend(m.sim.Backend()),
	)
	if err != nil {
		m.err = err
		return
	}
	m.sim = fresh
	m.step = 0
	m.flipped = 0
	m.history = m.history[:0]
}

func (m *model) View() string {
	var b strings.Builder

	rows, cols := m.sim.Dims()
	status := viz.StatusRunning.Render("running")
	if m.paused {
		status = viz.StatusPaused.Render("paused")
	} else if m.done() {
		status = viz.StatusPaused.Render("done")
	}

	b.WriteString(viz.Title.Render(fmt.Sprintf("ising %dx%d", rows, cols)))
	b.WriteString("  " + status + "\n\n")

	snapshot := m.sim.Grid()
	var grid string
	if m.braille {
		grid = lipgloss.NewStyle().Foreground(m.theme.Up).Render(viz.RenderBraille(snapshot))
	} else {
		grid = viz.RenderLattice(snapshot, m.theme)
	}
	b.WriteString(viz.Panel.BorderForeground(m.theme.Muted).Render(strings.TrimRight(grid, "\n")))
	b.WriteString("\n")

	b.WriteString(viz.Metric("T", fmt.Sprintf("%.3f", m.temperature)) + "  ")
	b.WriteString(viz.Metric("J", fmt.Sprintf("%g", m.sim.J())) + "  ")
	b.WriteString(viz.Metric("algo", m.algorithm) + "  ")
	b.WriteString(viz.Metric("step", fmt.Sprintf("%d", m.step)) + "\n")
	b.WriteString(viz.Metric("E/N", fmt.Sprintf("%+.4f", m.sim.MeanEnergy())) + "  ")
	b.WriteString(viz.Metric("|m|", fmt.Sprintf("%.4f", m.sim.MeanMagnetization())) + "  ")
	if m.algorithm == mc.AlgorithmWolff {
		b.WriteString(viz.Metric("cluster", fmt.Sprintf("%d", m.flipped)))
	}
	b.WriteString("\n")
	b.WriteString(viz.Separator(historyLen+4) + "\n")
	b.WriteString(cyan.Render("|m| ") + viz.Sparkline(m.history, historyLen) + "\n")

	if m.err != nil {
		b.WriteString(viz.StatusPaused.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + viz.KeyHint.Render("space pause  s step  +/- temperature  a algorithm  f flip  r reset  t theme  b braille  q quit"))
	return b.String()
}

// Run starts the live view on the terminal and blocks until the user quits.
func Run(sim *ising.Model, opts Options) error {
	m, err := newLive(sim, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
