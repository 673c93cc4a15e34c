// Command cdecao reads a course assignment problem from a JSON file, computes
// the optimal assignment and prints or writes the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/mhthies/cdecao/caobab"
	"github.com/mhthies/cdecao/courseio"
)

func main() {
	app := cli.NewApp()
	app.Name = "cdecao"
	app.Usage = "compute an optimal course assignment from course choices"
	app.ArgsUsage = "PROBLEM_FILE"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the assignment as JSON to `FILE`",
		},
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "do not print the human readable assignment",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Usage: "abort the search after `DURATION` (0 means no timeout)",
		},
		cli.StringFlag{
			Name:  "dot",
			Usage: "write a DOT visualisation of the enumeration tree to `FILE`",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("exactly one problem file expected", 2)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer f.Close()

	courses, participants, err := courseio.ReadProblem(f)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	log.Printf("read %d courses and %d participants", len(courses), len(participants))

	ctx := context.Background()
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger := caobab.NewTreeLogger()
	start := time.Now()
	assignment, score, err := caobab.SolveInstrumented(ctx, courses, participants, logger)

	if dotFile := c.String("dot"); dotFile != "" {
		if out, derr := os.Create(dotFile); derr != nil {
			log.Printf("writing enumeration tree: %v", derr)
		} else {
			logger.ToDOT(out)
			out.Close()
		}
	}

	if err != nil {
		if errors.Is(err, caobab.ErrNoFeasibleAssignment) {
			return cli.NewExitError("no feasible course assignment exists", 1)
		}
		return cli.NewExitError(fmt.Sprintf("solving failed: %v", err), 1)
	}
	log.Printf("found optimal assignment with score %d in %v", score, time.Since(start))

	if !c.Bool("quiet") {
		fmt.Print(courseio.FormatAssignment(assignment, courses, participants))
	}

	if outFile := c.String("output"); outFile != "" {
		out, err := os.Create(outFile)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		defer out.Close()
		if err := courseio.WriteAssignment(out, assignment, courses, participants, score); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}

	return nil
}
