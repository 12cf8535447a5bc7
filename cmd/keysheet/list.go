package main

import (
	"fmt"

	"github.com/mkarczewski/keysheet"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := keysheet.KeywordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Engine != "" {
		// "seed" is a valid attribution in the store even though it is
		// not a queryable engine.
		engine := keysheet.EngineSeed
		if c.Engine != string(keysheet.EngineSeed) {
			parsed, err := keysheet.ParseEngine(c.Engine)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", keysheet.ErrorMessage(err))
				return err
			}
			engine = parsed
		}
		filter.Engine = &engine
	}

	records, total, err := deps.Keywords.FindKeywords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keysheet.ErrorMessage(err))
		return err
	}

	if total == 0 {
		fmt.Fprintln(deps.Stdout, "No keywords found. Use 'keysheet run' to discover some.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(deps.Stdout, "%s  %-14s  %s\n",
			rec.DiscoveredAt.Format("2006-01-02 15:04"), rec.Engine, rec.Keyword)
	}
	if len(records) < total {
		fmt.Fprintf(deps.Stdout, "Showing %d of %d keywords.\n", len(records), total)
	}

	return nil
}
