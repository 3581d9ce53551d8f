package capability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	"github.com/fleetmesh/dispatch/internal/mocks"
	"github.com/fleetmesh/dispatch/internal/service/capability"
)

type passthroughMasker struct{}

func (passthroughMasker) Mask(expression string) string { return expression }

func newCapabilitySvc(t *testing.T) (*capability.Service, *mocks.MockSelectorMapTable) {
	t.Helper()
	ctrl := gomock.NewController(t)
	table := mocks.NewMockSelectorMapTable(ctrl)
	return capability.NewService(table, passthroughMasker{}, capability.DefaultAdapters()), table
}

func TestAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("merges tags, selector map and vault URLs", func(t *testing.T) {
		svc, table := newCapabilitySvc(t)
		table.EXPECT().SelectorsForTaskType(gomock.Any(), "acct-1", "HTTP").Return([]string{"edge"}, nil)

		tk := domaintask.New("acct-1", domaintask.Data{Type: "HTTP"}, domaintask.RankOptional)
		tk.Tags = []string{"linux"}
		tk.SecretVaultURLs = []string{"https://vault.internal"}

		require.NoError(t, svc.Assemble(ctx, &tk))
		require.Len(t, tk.ExecutionCapabilities, 3)

		selectors := domaintask.SelectorCapabilities(tk.ExecutionCapabilities)
		require.Len(t, selectors, 2)
		assert.Equal(t, domaintask.OriginTaskSelectors, selectors[0].Origin)
		assert.Equal(t, domaintask.OriginTaskCategoryMap, selectors[1].Origin)

		agent := domaintask.AgentCapabilities(tk.ExecutionCapabilities)
		require.Len(t, agent, 1)
		assert.Equal(t, "secret vault connectivity: https://vault.internal", agent[0].Description())

		require.Len(t, tk.ActivityLog, 1)
		assert.Contains(t, tk.ActivityLog[0], "Required capabilities:")
	})

	t.Run("assembly is idempotent", func(t *testing.T) {
		svc, table := newCapabilitySvc(t)
		table.EXPECT().SelectorsForTaskType(gomock.Any(), "acct-1", "HTTP").Return(nil, nil).Times(2)

		tk := domaintask.New("acct-1", domaintask.Data{Type: "HTTP"}, domaintask.RankOptional)
		tk.Tags = []string{"linux"}

		require.NoError(t, svc.Assemble(ctx, &tk))
		require.NoError(t, svc.Assemble(ctx, &tk))
		assert.Len(t, tk.ExecutionCapabilities, 1)
		assert.Len(t, tk.ActivityLog, 1, "re-assembly must not repeat the activity entry")
	})

	t.Run("task without tags or mappings gets no capabilities", func(t *testing.T) {
		svc, table := newCapabilitySvc(t)
		table.EXPECT().SelectorsForTaskType(gomock.Any(), "acct-1", "SHELL").Return(nil, nil)

		tk := domaintask.New("acct-1", domaintask.Data{Type: "SHELL"}, domaintask.RankOptional)
		require.NoError(t, svc.Assemble(ctx, &tk))
		assert.Empty(t, tk.ExecutionCapabilities)
	})
}

func TestPayloadAdapters(t *testing.T) {
	ctx := context.Background()

	t.Run("http task demands connectivity to its url", func(t *testing.T) {
		svc, table := newCapabilitySvc(t)
		table.EXPECT().SelectorsForTaskType(gomock.Any(), "acct-1", "HTTP").Return(nil, nil)

		tk := domaintask.New("acct-1", domaintask.Data{
			Type:       "HTTP",
			Parameters: map[string]string{"url": "https://example.com"},
		}, domaintask.RankOptional)

		require.NoError(t, svc.Assemble(ctx, &tk))
		require.Len(t, tk.ExecutionCapabilities, 1)
		assert.Equal(t, "http connectivity: https://example.com", tk.ExecutionCapabilities[0].Description())
	})

	t.Run("http task without a url demands nothing", func(t *testing.T) {
		svc, table := newCapabilitySvc(t)
		table.EXPECT().SelectorsForTaskType(gomock.Any(), "acct-1", "HTTP").Return(nil, nil)

		tk := domaintask.New("acct-1", domaintask.Data{Type: "HTTP"}, domaintask.RankOptional)
		require.NoError(t, svc.Assemble(ctx, &tk))
		assert.Empty(t, tk.ExecutionCapabilities)
	})

	t.Run("masking evaluator rewrites demanded descriptions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		table := mocks.NewMockSelectorMapTable(ctrl)
		table.EXPECT().SelectorsForTaskType(gomock.Any(), "acct-1", "HTTP").Return(nil, nil)
		svc := capability.NewService(table, suffixMasker{}, capability.DefaultAdapters())

		tk := domaintask.New("acct-1", domaintask.Data{
			Type:       "HTTP",
			Parameters: map[string]string{"url": "https://${secrets.host}"},
		}, domaintask.RankOptional)

		require.NoError(t, svc.Assemble(ctx, &tk))
		require.Len(t, tk.ExecutionCapabilities, 1)
		assert.Equal(t, "http connectivity: masked", tk.ExecutionCapabilities[0].Description())
	})
}

type suffixMasker struct{}

func (suffixMasker) Mask(string) string { return "masked" }
