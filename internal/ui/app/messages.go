package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"listkit/internal/catalog"
	"listkit/internal/infra/logx"
)

const mutationTimeout = 10 * time.Second

type createdMsg struct {
	entry catalog.Entry
	err   error
}

type deletedMsg struct {
	entry catalog.Entry
	err   error
}

func createCmd(ctx context.Context, mut catalog.Mutator, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, mutationTimeout)
		defer cancel()
		e, err := mut.Create(ctx, title)
		if err != nil {
			logx.Errorf("app: create %q: %v", title, err)
		}
		return createdMsg{entry: e, err: err}
	}
}

func deleteCmd(ctx context.Context, mut catalog.Mutator, e catalog.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, mutationTimeout)
		defer cancel()
		err := mut.Delete(ctx, e.ID)
		if err != nil {
			logx.Errorf("app: delete %s: %v", e.ID, err)
		}
		return deletedMsg{entry: e, err: err}
	}
}
