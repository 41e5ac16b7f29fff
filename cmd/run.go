package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/app"
	"github.com/skillbit/skillbit/internal/coach"
	"github.com/skillbit/skillbit/internal/lectures"
	"github.com/skillbit/skillbit/internal/llm"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	st, id := d.store, d.learner.ID
	results := st.Results(id)
	events := st.Events()

	provider, err := llm.New(cmd.Context(), d.cfg.LLM.Client(), events, d.log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The coach will use built-in messages.")
		provider = nil
	}

	env := &screen.Env{
		Learner:  d.learner,
		Profiles: st.Profiles(),
		Catalog:  d.catalog,
		Lectures: lectures.NewTracker(st.LectureProgress(id)),
		Results:  results,
		Sink: store.SessionSink{
			Results:   results,
			Events:    events,
			Snapshots: st.SnapshotRepo(),
			Keep:      d.cfg.Session.History,
		},
		History:      st.SnapshotRepo(),
		Coach:        coach.New(provider, coach.WithLogger(d.log)),
		Break:        d.cfg.Break.Policy(),
		MaxQuestions: d.cfg.Session.MaxQuestions,
		Log:          d.log,
	}

	d.log.Info("starting tui", "learner", id, "practice_pool", d.catalog.Practice.Len())
	return app.Run(env)
}
