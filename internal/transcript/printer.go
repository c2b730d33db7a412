package transcript

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/latestcomment/acl-debate/internal/models"
)

var performativeColors = map[models.Performative]*color.Color{
	models.Propose:   color.New(color.FgGreen),
	models.Challenge: color.New(color.FgYellow),
	models.Verify:    color.New(color.FgCyan),
	models.Confirm:   color.New(color.FgMagenta),
}

var (
	plain         = color.New(color.FgWhite)
	judgmentColor = color.New(color.FgMagenta)
)

// Printer writes transcripts for people to read.
type Printer struct {
	Out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

func (p *Printer) PrintMessage(m models.Message) {
	c, ok := performativeColors[m.Performative()]
	if !ok {
		c = plain
	}
	if m.IsBroadcast() {
		c.Fprintf(p.Out, "%s (%s): %s\n", m.Sender(), m.Performative(), m.Content())
		return
	}
	c.Fprintf(p.Out, "%s -> %s (%s): %s\n", m.Sender(), m.Receiver(), m.Performative(), m.Content())
}

func (p *Printer) PrintTranscript(messages []models.Message) {
	fmt.Fprintln(p.Out, "Debate Transcript:")
	fmt.Fprintln(p.Out, "------------------")
	for _, m := range messages {
		p.PrintMessage(m)
	}
}

func (p *Printer) PrintJudgment(judgment string) {
	fmt.Fprintln(p.Out, "\nFinal Judgment:")
	fmt.Fprintln(p.Out, "---------------")
	judgmentColor.Fprintln(p.Out, judgment)
}
