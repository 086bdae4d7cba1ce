// Package newsgen emits synthetic market headlines on a fixed period. Like
// the quote synthesizer it is memoryless; every headline is drawn fresh from
// the template tables.
package newsgen

import (
	"fmt"
	"time"

	"stockdeck/internal/domain"
	"stockdeck/internal/sched"
	"stockdeck/internal/sim"
)

// Feed receives generated headlines. The board implements it.
type Feed interface {
	AppendHeadline(h domain.Headline)
}

var templates = []string{
	"%s beats quarterly earnings estimates",
	"%s announces expanded share buyback program",
	"Analysts raise price target on %s",
	"%s unveils new product line at annual event",
	"%s faces regulatory scrutiny over recent acquisition",
	"Institutional investors increase stake in %s",
	"%s reports stronger than expected guidance",
	"Supply chain pressures weigh on %s outlook",
}

var sectors = []string{
	"Technology",
	"Healthcare",
	"Financial Services",
	"Consumer Cyclical",
	"Energy",
	"Industrials",
	"Communication Services",
}

var sources = []string{
	"MarketWatch",
	"Reuters",
	"Bloomberg",
	"Barron's",
}

// defaultUniverse backs a Generator constructed with no symbols.
var defaultUniverse = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"}

// Generator produces one headline per period.
type Generator struct {
	feed    Feed
	gen     *sim.Generator
	sched   *sched.Scheduler
	period  time.Duration
	symbols []string

	handle sched.Handle
}

// New creates a Generator drawing from the given symbol universe. An empty
// universe falls back to the built-in one.
func New(feed Feed, gen *sim.Generator, scheduler *sched.Scheduler, period time.Duration, symbols []string) *Generator {
	if len(symbols) == 0 {
		symbols = defaultUniverse
	}
	return &Generator{
		feed:    feed,
		gen:     gen,
		sched:   scheduler,
		period:  period,
		symbols: symbols,
	}
}

// Start begins periodic headline emission.
func (g *Generator) Start() {
	g.handle = g.sched.Every(g.period, g.Emit)
}

// Stop cancels headline emission.
func (g *Generator) Stop() {
	g.sched.Cancel(g.handle)
}

// Emit generates one headline and appends it to the feed.
func (g *Generator) Emit() {
	g.feed.AppendHeadline(g.Headline())
}

// Headline draws a fresh headline from the template tables.
func (g *Generator) Headline() domain.Headline {
	sym := g.symbols[g.pick(len(g.symbols))]
	return domain.Headline{
		Time:   g.sched.Clock().Now(),
		Symbol: sym,
		Sector: sectors[g.pick(len(sectors))],
		Text:   fmt.Sprintf(templates[g.pick(len(templates))], sym),
		Source: sources[g.pick(len(sources))],
	}
}

// pick returns a uniform index in [0, n).
func (g *Generator) pick(n int) int {
	i := int(g.gen.Uniform(0, float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}
