// genmodel writes a model artifact with hand-picked linear coefficients.
// It stands in for the offline training pipeline: the output has the exact
// format a trained artifact ships in, with weights chosen so the starting
// position scores near zero.
package main

import (
	"flag"
	"fmt"
	"os"

	"chessadvisor/internal/feature"
	"chessadvisor/internal/model"
)

func main() {
	out := flag.String("out", "model.json", "artifact output path")
	flag.Parse()

	weights := make([]float64, feature.Count)
	for i, name := range feature.Names {
		switch name {
		case "mobility_white":
			weights[i] = 0.01
		case "mobility_black":
			weights[i] = -0.01
		case "king_safety_white", "king_safety_black":
			weights[i] = 0.05
		case "doubled_pawns", "isolated_pawns":
			weights[i] = -0.15
		case "game_phase":
			weights[i] = 0
		default:
			// Signed material features carry their piece value already.
			weights[i] = 1.0
		}
	}

	if err := model.Save(*out, 0, weights); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println("wrote", *out)
}
