// chessadvisor evaluates chess positions, suggests moves and spots blunders
// from the command line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chessadvisor/internal/advisor"
	"chessadvisor/internal/config"
	"chessadvisor/internal/engine"
	"chessadvisor/internal/eval"
	"chessadvisor/internal/rules"
)

const usage = `usage: chessadvisor <command> [flags]

commands:
  eval     score a position
  suggest  rank candidate moves for the side to move
  blunder  judge a move played in a position
  state    classify a position (check, mate, draw, ...)
  game     replay a move list from the start and analyze every ply

run 'chessadvisor <command> -h' for command flags
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command")
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "eval":
		return cmdEval(args)
	case "suggest":
		return cmdSuggest(args)
	case "blunder":
		return cmdBlunder(args)
	case "state":
		return cmdState(args)
	case "game":
		return cmdGame(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newEngine loads the configuration and builds the engine plus its logger.
func newEngine(configPath string) (*engine.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	return engine.New(cfg, log)
}

func parsePosition(fen string) (rules.Position, error) {
	if fen == "" {
		return rules.Starting(), nil
	}
	return rules.ParseFEN(fen)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	fen := fs.String("fen", "", "position in FEN, starting position when empty")
	fs.Parse(args)

	e, err := newEngine(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	pos, err := parsePosition(*fen)
	if err != nil {
		return err
	}
	return printJSON(e.Evaluate(pos))
}

func cmdSuggest(args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	fen := fs.String("fen", "", "position in FEN, starting position when empty")
	count := fs.Int("n", 0, "number of suggestions, 0 for the configured default")
	fs.Parse(args)

	e, err := newEngine(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	pos, err := parsePosition(*fen)
	if err != nil {
		return err
	}

	suggestions := e.SuggestMoves(pos, *count)
	if suggestions == nil {
		return fmt.Errorf("game over: %s", e.ClassifyState(pos))
	}
	return printJSON(suggestions)
}

func cmdBlunder(args []string) error {
	fs := flag.NewFlagSet("blunder", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	fen := fs.String("fen", "", "position in FEN, starting position when empty")
	move := fs.String("move", "", "played move in coordinate form, e.g. e2e4")
	fs.Parse(args)

	if *move == "" {
		return fmt.Errorf("-move is required")
	}

	e, err := newEngine(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	before, err := parsePosition(*fen)
	if err != nil {
		return err
	}
	played, err := before.FindMove(*move)
	if err != nil {
		return err
	}
	return printJSON(e.CheckBlunder(before, played, before.Apply(played)))
}

func cmdState(args []string) error {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	fen := fs.String("fen", "", "position in FEN, starting position when empty")
	fs.Parse(args)

	pos, err := parsePosition(*fen)
	if err != nil {
		return err
	}
	return printJSON(struct {
		State advisor.GameState `json:"state"`
	}{advisor.Classify(pos)})
}

// plyReport is the per-move analysis emitted by the game command.
type plyReport struct {
	Ply   int               `json:"ply"`
	Move  string            `json:"move"`
	FEN   string            `json:"fen"`
	Eval  eval.Result       `json:"eval"`
	State advisor.GameState `json:"state"`
	Drop  *advisor.Report   `json:"blunder,omitempty"`
}

func cmdGame(args []string) error {
	fs := flag.NewFlagSet("game", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	fs.Parse(args)

	moves := fs.Args()
	if len(moves) == 0 {
		return fmt.Errorf("game needs a space-separated move list, e.g. e2e4 e7e5")
	}

	e, err := newEngine(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	// Replay sequentially so each ply knows its position, then analyze the
	// plies concurrently.
	type ply struct {
		before rules.Position
		move   rules.Move
		after  rules.Position
	}
	plies := make([]ply, 0, len(moves))
	pos := rules.Starting()
	for i, s := range moves {
		m, err := pos.FindMove(s)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		next := pos.Apply(m)
		plies = append(plies, ply{before: pos, move: m, after: next})
		pos = next
	}

	reports := make([]plyReport, len(plies))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range plies {
		i := i
		g.Go(func() error {
			p := plies[i]
			r := plyReport{
				Ply:   i + 1,
				Move:  p.move.String(),
				FEN:   p.after.FEN(),
				Eval:  e.Evaluate(p.after),
				State: e.ClassifyState(p.after),
			}
			if report := e.CheckBlunder(p.before, p.move, p.after); report.IsBlunder {
				r.Drop = &report
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return printJSON(reports)
}
