package tools_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/workflowwiz/wizard/pkg/tools/gmail"
	"github.com/workflowwiz/wizard/pkg/tools/notion"
	"github.com/workflowwiz/wizard/pkg/tools/sheets"
	"github.com/workflowwiz/wizard/pkg/tools/webhook"
)

func fullRegistry(t *testing.T) *tools.Registry {
	t.Helper()

	registry := tools.NewRegistry(slog.Default())
	registry.Register(gmail.Descriptor())
	registry.Register(sheets.Descriptor())
	registry.Register(notion.Descriptor())
	registry.Register(webhook.Descriptor())

	return registry
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	registry := fullRegistry(t)

	descriptor, ok := registry.Get("gmail")
	require.True(t, ok)
	assert.Equal(t, "Gmail", descriptor.Name)

	_, ok = registry.Get("fax")
	assert.False(t, ok)
}

func TestRegistry_IDs_Sorted(t *testing.T) {
	t.Parallel()

	registry := fullRegistry(t)

	assert.Equal(t, []string{"gmail", "notion", "sheets", "webhook"}, registry.IDs())
}

func TestRegistry_FindByAction(t *testing.T) {
	t.Parallel()

	registry := fullRegistry(t)

	matches := registry.FindByAction("post")
	require.Len(t, matches, 1)
	assert.Equal(t, "webhook", matches[0].ID)

	assert.Empty(t, registry.FindByAction("teleport"))
}

func TestRegistry_HealthCheck(t *testing.T) {
	t.Parallel()

	empty := tools.NewRegistry(slog.Default())
	_, ok := empty.HealthCheck()
	assert.False(t, ok)

	_, ok = fullRegistry(t).HealthCheck()
	assert.True(t, ok)
}

func TestDescriptor_Capability(t *testing.T) {
	t.Parallel()

	descriptor := gmail.Descriptor()

	capability, ok := descriptor.Capability("send_email")
	require.True(t, ok)
	assert.True(t, capability.Terminal)

	_, ok = descriptor.Capability("teleport")
	assert.False(t, ok)
}
