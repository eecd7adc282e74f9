package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sdlab/stokesd/internal/config"
	"github.com/sdlab/stokesd/internal/stokes"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var presetInfo = map[string]string{
	"pair":     "entrainment of a passive sphere",
	"doublet":  "lubrication-dominated settling",
	"sediment": "chain sedimentation",
	"lattice":  "thermalized unequal spheres",
}

type state int

const (
	stateMenu state = iota
	stateSim
)

type model struct {
	state    state
	cursor   int
	presets  []string
	selected string

	cfg    *config.Config
	solver *stokes.Solver
	radii  []float64
	forces []float64
	pos    []float64
	amp    float64
	flags  stokes.Flags

	running bool
	paused  bool
	step    int
	simTime float64
	speed   float64
	simErr  error

	trail     []trailPoint
	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

type trailPoint struct{ x, z float64 }

func NewInteractiveApp() *model {
	names := config.ListPresets()
	sort.Strings(names)
	return &model{
		state:   stateMenu,
		presets: names,
		speed:   1.0,
		trail:   make([]trailPoint, 0, 100),
		history: make([]float64, 0, 60),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.simErr == nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			steps := int(m.speed)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				m.stepSim()
			}
		}
		if m.running && m.state == stateSim {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		if err := m.start(); err != nil {
			m.simErr = err
		}
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if err := m.start(); err != nil {
			m.simErr = err
		}
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) start() error {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		return fmt.Errorf("unknown preset %q", m.selected)
	}
	m.cfg = cfg

	solver, err := stokes.NewSolver(nil, cfg.Viscosity, len(cfg.Particles))
	if err != nil {
		return err
	}
	m.solver = solver
	m.pos, m.radii, m.forces = cfg.Arrays()
	m.flags = cfg.Flags()
	m.amp = 0
	if cfg.KT > 0 {
		m.amp = math.Sqrt(cfg.KT / cfg.Dt)
	}

	m.step = 0
	m.simTime = 0
	m.speed = 1.0
	m.simErr = nil
	m.trail = make([]trailPoint, 0, 100)
	m.history = make([]float64, 0, 60)
	m.lastFrame = time.Time{}
	m.running = true
	m.paused = false
	return nil
}

func (m *model) reset() {
	m.solver = nil
	m.cfg = nil
	m.pos = nil
	m.trail = nil
	m.history = nil
	m.simErr = nil
	m.step = 0
	m.simTime = 0
}

func (m *model) stepSim() {
	if m.cfg == nil || m.step >= m.cfg.Steps {
		m.paused = true
		return
	}

	vel, err := m.solver.Velocities(stokes.Request{
		Positions:        m.pos,
		Radii:            m.radii,
		Forces:           m.forces,
		ThermalAmplitude: m.amp,
		Offset:           uint64(m.step),
		Seed:             m.cfg.Seed,
		Flags:            m.flags,
	})
	if err != nil {
		m.simErr = err
		m.paused = true
		return
	}

	for p := range m.radii {
		m.pos[3*p+0] += vel[6*p+0] * m.cfg.Dt
		m.pos[3*p+1] += vel[6*p+1] * m.cfg.Dt
		m.pos[3*p+2] += vel[6*p+2] * m.cfg.Dt
	}
	m.step++
	m.simTime += m.cfg.Dt

	m.trail = append(m.trail, trailPoint{m.pos[0], m.pos[2]})
	if len(m.trail) > 100 {
		m.trail = m.trail[1:]
	}
	m.history = append(m.history, m.pos[2])
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("s t o k e s d") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	cw := m.width - 6
	ch := m.height - 10
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	m.drawParticles(canvas, cw, ch)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.simErr != nil {
		statusIcon = red.Render("✖")
		statusText = red.Render(m.simErr.Error())
	} else if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n",
		statusIcon, cyan.Render(m.selected), statusText))

	total := 1
	if m.cfg != nil {
		total = m.cfg.Steps
	}
	progress := float64(m.step) / float64(total)
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("step %d/%d  t=%.3fs", m.step, total, m.simTime)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	if len(m.pos) >= 3 {
		b.WriteString(fmt.Sprintf("\n   %s%s  %s%s  %s%s\n",
			dim.Render("x="), white.Render(fmt.Sprintf("%.3f", m.pos[0])),
			dim.Render("y="), white.Render(fmt.Sprintf("%.3f", m.pos[1])),
			dim.Render("z="), white.Render(fmt.Sprintf("%.3f", m.pos[2]))))
	}

	if len(m.history) > 1 {
		spark := sparkline(m.history, 24)
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("z₀"), magenta.Render(spark)))
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reset  q back") + "\n")

	return b.String()
}

func (m model) drawParticles(canvas [][]rune, w, h int) {
	if len(m.pos) == 0 {
		return
	}
	n := len(m.radii)

	xMin, xMax := m.pos[0], m.pos[0]
	zMin, zMax := m.pos[2], m.pos[2]
	for p := 0; p < n; p++ {
		a := m.radii[p]
		xMin = math.Min(xMin, m.pos[3*p]-2*a)
		xMax = math.Max(xMax, m.pos[3*p]+2*a)
		zMin = math.Min(zMin, m.pos[3*p+2]-2*a)
		zMax = math.Max(zMax, m.pos[3*p+2]+2*a)
	}
	for _, pt := range m.trail {
		xMin = math.Min(xMin, pt.x)
		xMax = math.Max(xMax, pt.x)
		zMin = math.Min(zMin, pt.z)
		zMax = math.Max(zMax, pt.z)
	}
	if xMax-xMin < 1e-9 {
		xMax = xMin + 1
	}
	if zMax-zMin < 1e-9 {
		zMax = zMin + 1
	}

	proj := func(x, z float64) (int, int) {
		px := int(float64(w-1) * (x - xMin) / (xMax - xMin))
		py := int(float64(h-1) * (zMax - z) / (zMax - zMin))
		return px, py
	}

	for _, pt := range m.trail {
		px, py := proj(pt.x, pt.z)
		set(canvas, px, py, '·', w, h)
	}

	maxR := 0.0
	for _, a := range m.radii {
		maxR = math.Max(maxR, a)
	}
	for p := 0; p < n; p++ {
		px, py := proj(m.pos[3*p], m.pos[3*p+2])
		c := '●'
		if m.radii[p] < 0.75*maxR {
			c = 'o'
		}
		set(canvas, px, py, c, w, h)
	}
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
