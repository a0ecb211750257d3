package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/negotiation"
	"github.com/apexsim/paddock/internal/replay"
	"github.com/apexsim/paddock/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to paddock.db (audit mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	verbose := flag.Bool("v", false, "log every decision while replaying")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --db path/to/paddock.db")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *verbose)
	} else {
		exitCode = runDBMode(*dbPath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

// runFixtureMode replays a fixture from its starting world and compares the
// outcomes against the fixture's expectations.
func runFixtureMode(path string, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	log := zerolog.Nop()
	if verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	summary, err := replay.Run(f, negotiation.DefaultTuning(), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("replayed %d days: %d completed, %d failed, %d active, %d notifications\n",
		summary.Days, summary.Completed, summary.Failed, summary.StillActive, summary.Notifications)
	for _, o := range summary.Outcomes {
		fmt.Printf("  %-12s %-14s %-18s %d rounds\n", o.Kind, o.CounterpartyID, o.Phase, o.Rounds)
	}
	for _, m := range summary.Mismatches {
		fmt.Printf("MISMATCH  %s\n", m)
	}
	for _, c := range summary.Invalid {
		for _, p := range c.Problems {
			fmt.Printf("INVALID   %s: %s\n", c.NegotiationID, p)
		}
	}

	if !summary.Passed() {
		fmt.Println("FAIL")
		return 1
	}
	fmt.Println("OK")
	return 0
}

// #endregion fixture-mode

// #region db-mode

// runDBMode audits every persisted negotiation against structural
// invariants, without re-running anything.
func runDBMode(path string) int {
	db, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 1
	}
	defer db.Close()

	list, err := db.LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		return 1
	}

	failed := replay.Audit(list)
	fmt.Printf("audited %d negotiations, %d invalid\n", len(list.Items), len(failed))
	for _, c := range failed {
		for _, p := range c.Problems {
			fmt.Printf("INVALID  %s: %s\n", c.NegotiationID, p)
		}
	}
	if len(failed) > 0 {
		return 1
	}
	return 0
}

// #endregion db-mode
