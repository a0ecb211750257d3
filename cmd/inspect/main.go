package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/apexsim/paddock/internal/negotiation"
	"github.com/apexsim/paddock/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to paddock.db")
	id := flag.String("negotiation", "", "show single negotiation detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/paddock.db [--negotiation id] [--json]")
		os.Exit(2)
	}

	db, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *id != "" {
		err = runDetailMode(db, *id, *jsonOut)
	} else {
		err = runListMode(db, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	TeamID         string `json:"team_id"`
	CounterpartyID string `json:"counterparty_id"`
	TargetSeason   int    `json:"target_season"`
	Phase          string `json:"phase"`
	Rounds         int    `json:"rounds"`
}

func runListMode(db *store.Store, jsonOut bool) error {
	list, err := db.LoadAll()
	if err != nil {
		return err
	}
	if len(list.Items) == 0 {
		fmt.Fprintln(os.Stderr, "no negotiations found")
		return nil
	}

	rows := make([]listRow, len(list.Items))
	for i, n := range list.Items {
		rows[i] = listRow{
			ID:             n.ID,
			Kind:           string(n.Kind),
			TeamID:         n.TeamID,
			CounterpartyID: n.CounterpartyID,
			TargetSeason:   n.TargetSeason,
			Phase:          string(n.Phase),
			Rounds:         len(n.Rounds),
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Printf("%-38s %-12s %-12s %-14s %-6s %-18s %s\n",
		"ID", "KIND", "TEAM", "COUNTERPARTY", "SEASON", "PHASE", "ROUNDS")
	for _, r := range rows {
		fmt.Printf("%-38s %-12s %-12s %-14s %-6d %-18s %d\n",
			r.ID, r.Kind, r.TeamID, r.CounterpartyID, r.TargetSeason, r.Phase, r.Rounds)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOut struct {
	Negotiation *negotiation.Negotiation     `json:"negotiation"`
	Decisions   []negotiation.DecisionEntry  `json:"decisions"`
	Check       negotiation.CheckResult      `json:"check"`
}

func runDetailMode(db *store.Store, id string, jsonOut bool) error {
	n, err := db.LoadNegotiation(id)
	if err != nil {
		return err
	}
	decisions, err := db.Decisions(id)
	if err != nil {
		return err
	}
	check := negotiation.Validate(n)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detailOut{Negotiation: n, Decisions: decisions, Check: check})
	}

	fmt.Printf("%s %s: %s vs %s, season %d, phase %s\n",
		n.ID, n.Kind, n.TeamID, n.CounterpartyID, n.TargetSeason, n.Phase)
	for _, r := range n.Rounds {
		flag := ""
		if r.IsUltimatum {
			flag = " [final]"
		}
		fmt.Printf("  round %d  %-12s %12.0f%s", r.Number, r.OfferedBy, r.Terms.Headline(), flag)
		if r.Response != "" {
			fmt.Printf("  -> %s (%s)", r.Response, r.Tone)
		}
		fmt.Println()
	}
	if len(decisions) > 0 {
		fmt.Println("decisions:")
		for _, d := range decisions {
			fmt.Printf("  [%s] round %d %s (%s): %s\n",
				d.Time.Format("2006-01-02"), d.Round, d.Response, d.Tone, d.Reason)
		}
	}
	if !check.Passed {
		fmt.Println("invariant problems:")
		for _, p := range check.Problems {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

// #endregion detail-mode
