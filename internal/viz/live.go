package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/sim"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(56)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps a run on every tick and draws the particles with the
// current thermodynamic state next to them.
type LiveModel struct {
	run          *sim.Run
	params       dynamo.Params
	canvas       *Canvas
	camera       *Camera
	stepsPerTick int
	running      bool
	done         bool
	err          error
	showHelp     bool
	last         dynamo.Sample
	temps        []float64
	totals       []float64
	started      time.Time
	elapsed      time.Duration
}

func NewLiveModel(run *sim.Run, params dynamo.Params, stepsPerTick int) LiveModel {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	last := run.Last()
	return LiveModel{
		run:          run,
		params:       params,
		canvas:       NewCanvas(width, height),
		camera:       NewCamera(),
		stepsPerTick: stepsPerTick,
		running:      true,
		done:         run.Done(),
		last:         last,
		temps:        []float64{last.Temperature},
		totals:       []float64{last.TotalEnergy},
		started:      time.Now(),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		if m.done {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		sample, ok, err := m.run.Next()
		if err != nil {
			m.err = err
			m.done = true
			break
		}
		m.last = sample
		m.temps = appendCapped(m.temps, sample.Temperature)
		m.totals = appendCapped(m.totals, sample.TotalEnergy)
		if !ok {
			m.done = true
			break
		}
	}
	if m.done {
		m.elapsed = time.Since(m.started)
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m LiveModel) Done() bool   { return m.done }
func (m LiveModel) Err() error   { return m.err }
func (m LiveModel) Step() int    { return m.run.Step() }
func (m LiveModel) Paused() bool { return !m.running }

func (m LiveModel) View() string {
	RenderParticles(m.canvas, m.run.Particles(), m.params.BoxLength, m.camera)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Secondary)
	mode := "BARE"
	if m.params.Periodic {
		mode = "PERIODIC"
	}
	s.WriteString(title.Render(fmt.Sprintf("LENNARD-JONES %s  N=%d", mode, m.params.N)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(SparkLow.Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.done:
		s.WriteString(StatusDone.Render(fmt.Sprintf("DONE in %.2fs", m.elapsed.Seconds())) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	progress := 1.0
	if m.params.Steps > 0 {
		progress = float64(m.run.Step()) / float64(m.params.Steps)
	}
	s.WriteString(ProgressBar(progress, 30) + fmt.Sprintf(" %d/%d\n\n", m.run.Step(), m.params.Steps))

	if len(m.temps) > 1 {
		chart := asciigraph.Plot(m.temps, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("Temperature"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(MetricLabel.Render("Total E") + SparklineChart(m.totals, 30) + "\n\n")

	row := func(label, format string, v float64) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(fmt.Sprintf(format, v)) + "\n")
	}
	row("Time", "%.1f", m.last.Time)
	row("Temperature", "%.4f", m.last.Temperature)
	row("Kinetic", "%.6e", m.last.KineticEnergy)
	row("Potential", "%.6e", m.last.PotentialEnergy)
	row("Total", "%.6e", m.last.TotalEnergy)
	row("|sum F|", "%.3e", m.last.ForceSumNorm)

	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause Q:Quit T:Theme ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
  Space    - Pause/Resume
  Q        - Quit
  X/Y/Z    - Rotate view (shift reverses)
  +/-      - Zoom
  T        - Cycle themes
  ?        - Toggle this help
` + "\n" + mainView
	}
	return mainView
}
