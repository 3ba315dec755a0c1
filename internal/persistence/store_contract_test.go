package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/aslflow/pkg/api"
)

func sampleDefinition(name, revision, doc string, at time.Time) api.StoredDefinition {
	return api.StoredDefinition{
		Name:        name,
		Revision:    revision,
		Fingerprint: api.FingerprintOf(doc),
		Document:    doc,
		CreatedAt:   at,
	}
}

// exerciseDefinitionStore runs the behaviour every DefinitionStore shares.
// name is used as a prefix so backends that keep data between tests do
// not see each other's definitions.
func exerciseDefinitionStore(t *testing.T, store DefinitionStore, name string) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := sampleDefinition(name, "rev-1", `{"StartAt":"A","States":{"A":{"Type":"Succeed"}}}`, base)
	second := sampleDefinition(name, "rev-2", `{"StartAt":"B","States":{"B":{"Type":"Succeed"}}}`, base.Add(time.Minute))

	_, err := store.GetLatestDefinition(ctx, name)
	require.ErrorIs(t, err, ErrDefinitionNotFound)

	revs, err := store.ListRevisions(ctx, name)
	require.NoError(t, err)
	require.Empty(t, revs)

	require.NoError(t, store.SaveDefinition(ctx, first))
	require.NoError(t, store.SaveDefinition(ctx, second))

	latest, err := store.GetLatestDefinition(ctx, name)
	require.NoError(t, err)
	require.Equal(t, "rev-2", latest.Revision)
	require.Equal(t, second.Document, latest.Document)
	require.Equal(t, second.Fingerprint, latest.Fingerprint)
	require.True(t, second.CreatedAt.Equal(latest.CreatedAt), "created_at %v != %v", latest.CreatedAt, second.CreatedAt)

	got, err := store.GetDefinition(ctx, name, "rev-1")
	require.NoError(t, err)
	require.Equal(t, first.Document, got.Document)
	require.Equal(t, name, got.Name)

	_, err = store.GetDefinition(ctx, name, "rev-missing")
	require.ErrorIs(t, err, ErrDefinitionNotFound)

	revs, err = store.ListRevisions(ctx, name)
	require.NoError(t, err)
	require.Equal(t, []string{"rev-1", "rev-2"}, revs)

	err = store.SaveDefinition(ctx, first)
	require.ErrorIs(t, err, ErrRevisionExists)

	// Revisions of another name are independent.
	other := sampleDefinition(name+"-other", "rev-1", first.Document, base)
	require.NoError(t, store.SaveDefinition(ctx, other))
	revs, err = store.ListRevisions(ctx, name)
	require.NoError(t, err)
	require.Len(t, revs, 2)
}
