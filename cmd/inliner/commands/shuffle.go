package commands

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/inliner/shuffle"
)

// ShuffleCommand prints random batches of 0..size-1.
type ShuffleCommand struct {
	size    int
	count   int
	batches int
	seed    uint64
}

func newShuffleCommand() *cobra.Command {
	sc := &ShuffleCommand{}
	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Print random batches drawn from a reshuffled permutation",
		Long: `Shuffle keeps a random permutation of 0..size-1 and prints batches drawn from it
in sequence, reshuffling the permutation whenever it is exhausted.`,
		Args: cobra.NoArgs,
		RunE: sc.run,
	}
	cmd.Flags().IntVar(&sc.size, "size", 10, "Permutation size")
	cmd.Flags().IntVar(&sc.count, "count", 10, "Batch size")
	cmd.Flags().IntVar(&sc.batches, "batches", 1, "Number of batches")
	cmd.Flags().Uint64Var(&sc.seed, "seed", 0, "Random seed (0 = time based)")
	return cmd
}

func (sc *ShuffleCommand) run(cmd *cobra.Command, _ []string) error {
	seed := sc.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	batch, err := shuffle.NewInts(rand.New(rand.NewPCG(seed, seed>>1|1)), sc.size)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	values := make([]string, 0, max(sc.count, 0))
	for i := 0; i < sc.batches; i++ {
		drawn, err := batch.Draw(sc.count)
		if err != nil {
			return err
		}
		values = values[:0]
		for _, value := range drawn {
			values = append(values, strconv.Itoa(value))
		}
		fmt.Fprintln(out, strings.Join(values, " "))
	}
	return nil
}
