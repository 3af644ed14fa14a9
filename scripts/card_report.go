package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bcaldwell/priorbank/pkg/priorbank"
	"github.com/bcaldwell/priorbank/pkg/priorbankimporter"
)

// Prints which cards of a snapshot survive deduplication.
func main() {
	cardsFile := flag.String("cards", "./cards.json", "card list response")
	cardDescFile := flag.String("card-desc", "./cardDesc.json", "card description response")
	flag.Parse()

	snapshot, err := priorbankimporter.LoadSnapshot(*cardsFile, *cardDescFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	result, err := priorbank.Convert(snapshot.Cards, snapshot.CardDescs)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tID\tCONTRACT\tSTATUS\tNAME")
	for _, card := range result.Cards {
		printCard(w, "kept", card)
	}
	for _, card := range result.EvictedCards {
		printCard(w, "evicted", card)
	}
	w.Flush()

	fmt.Printf("\n%d transactions after merging transfers\n", len(result.Transactions))
}

func printCard(w *tabwriter.Writer, state string, card priorbank.Card) {
	fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", state, card.ClientObject.ID, card.ClientObject.CardContractNumber, card.ClientObject.CardStatus, card.ClientObject.DefaultSynonym)
}
