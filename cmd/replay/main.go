package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"checkers/internal/domain/board"
	"checkers/internal/usecase/move"
)

// replay checks a recorded game offline with the same rule engine the server
// uses, printing the feedback for every play.
func main() {
	app := &cli.App{
		Name:  "replay",
		Usage: "validate a sequence of checkers turns",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Usage: "json snapshot to start from, a fresh board when empty"},
			&cli.StringFlag{Name: "plays", Usage: "json array of turns, each an array of plays", Required: true},
			&cli.IntFlag{Name: "size", Usage: "size of the fresh board", Value: board.DefaultSize},
			&cli.BoolFlag{Name: "capture-backwards", Value: true},
			&cli.BoolFlag{Name: "flying-kings", Value: true},
			&cli.BoolFlag{Name: "capture-after-far-row"},
			&cli.BoolFlag{Name: "mandatory-capture", Value: true},
			&cli.BoolFlag{Name: "maximum-capture", Value: true},
			&cli.BoolFlag{Name: "discard-captured"},
			&cli.BoolFlag{Name: "debug", Usage: "log every rejected move"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func rulesFrom(c *cli.Context) board.Rules {
	return board.Rules{
		CaptureBackwards:   c.Bool("capture-backwards"),
		FlyingKings:        c.Bool("flying-kings"),
		CaptureAfterFarRow: c.Bool("capture-after-far-row"),
		MandatoryCapture:   c.Bool("mandatory-capture"),
		MaximumCapture:     c.Bool("maximum-capture"),
		DiscardCaptured:    c.Bool("discard-captured"),
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func run(c *cli.Context) error {
	log, err := newLogger(c.Bool("debug"))
	if err != nil {
		return err
	}
	defer log.Sync()

	snap := board.NewInitialSnapshot(c.Int("size"))
	if path := c.String("snapshot"); path != "" {
		if err = readJSON(path, &snap); err != nil {
			return cli.Exit(fmt.Sprintf("read snapshot: %v", err), 2)
		}
	}
	var turns [][]board.Play
	if err = readJSON(c.String("plays"), &turns); err != nil {
		return cli.Exit(fmt.Sprintf("read plays: %v", err), 2)
	}

	rules := rulesFrom(c)
	processor := move.NewProcessor(log)
	for i, plays := range turns {
		b, err := board.New(snap, snap.Turn, rules)
		if err != nil {
			return cli.Exit(fmt.Sprintf("turn %d: %v", i, err), 2)
		}
		if winner, over := b.Winner(); over {
			return cli.Exit(fmt.Sprintf("turn %d: game is over, player %d won", i, winner), 1)
		}

		results, err := processor.PlayTurn(b, plays)
		for j, res := range results {
			fmt.Fprintf(c.App.Writer, "turn %d play %d (player %d): %s\n", i, j, snap.Turn, res)
		}
		if err != nil {
			return cli.Exit(fmt.Sprintf("turn %d: %v", i, err), 1)
		}
		snap = b.Snapshot()
	}

	final, err := board.New(snap, snap.Turn, rules)
	if err != nil {
		return err
	}
	if winner, over := final.Winner(); over {
		fmt.Fprintf(c.App.Writer, "player %d won\n", winner)
		return nil
	}
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
