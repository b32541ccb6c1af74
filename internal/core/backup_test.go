package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"siteledger/internal/storage/memstore"
	"siteledger/pkg/domain"
)

func TestExportBundleIncludesEveryResource(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())
	require.NoError(t, svc.EnsureResources(ctx))

	_, err := svc.CreateProject(ctx, domain.Project{Name: "Villa"})
	require.NoError(t, err)

	bundle, err := svc.ExportBundle(ctx)
	require.NoError(t, err)
	require.Len(t, bundle, len(domain.Resources()))

	var projects []domain.Project
	require.NoError(t, json.Unmarshal(bundle["projects"], &projects))
	require.Len(t, projects, 1)
	require.Equal(t, "Villa", projects[0].Name)

	// absent documents still contribute their defaults
	require.JSONEq(t, "{}", string(bundle["settings"]))
	require.JSONEq(t, "[]", string(bundle["clients"]))
}

func TestExportBundleWithoutEnsureUsesDefaults(t *testing.T) {
	svc := newTestService(t, memstore.New())
	bundle, err := svc.ExportBundle(context.Background())
	require.NoError(t, err)
	for _, res := range domain.Resources() {
		require.Contains(t, bundle, string(res))
	}
	require.JSONEq(t, "[]", string(bundle["smart_fund"]))
}

func TestRestoreBundleRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestService(t, memstore.New())
	_, err := source.CreateClient(ctx, domain.Client{Name: "Ayman", Phone: "555-0101"})
	require.NoError(t, err)
	bundle, err := source.ExportBundle(ctx)
	require.NoError(t, err)

	target := newTestService(t, memstore.New())
	result, err := target.RestoreBundle(ctx, bundle)
	require.NoError(t, err)
	require.Len(t, result.Restored, len(domain.Resources()))
	require.Empty(t, result.Skipped)

	clients, err := target.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, "Ayman", clients[0].Name)
}

func TestRestoreBundleSkipsUnknownAndInvalidKeys(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	bundle := Bundle{
		"projects":     json.RawMessage(`[{"id":"p1","name":"Imported"}]`),
		"wallets":      json.RawMessage(`[]`),               // not a resource
		"tasks":        json.RawMessage(`{"broken": json}`), // invalid JSON
		"smart_fund":   json.RawMessage(`[]`),
		"transactions": json.RawMessage(`[]`), // not a resource
	}
	result, err := svc.RestoreBundle(ctx, bundle)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"projects", "smart_fund"}, result.Restored)
	require.ElementsMatch(t, []string{"wallets", "tasks", "transactions"}, result.Skipped)

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Imported", projects[0].Name)
}

func TestRestoreBundleInvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	_, err := svc.CreateProject(ctx, domain.Project{Name: "Old"})
	require.NoError(t, err)
	// warm the cache
	_, err = svc.ListProjects(ctx)
	require.NoError(t, err)

	_, err = svc.RestoreBundle(ctx, Bundle{
		"projects": json.RawMessage(`[{"id":"p9","name":"Restored"}]`),
	})
	require.NoError(t, err)

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Restored", projects[0].Name)
}

func TestRestoreBundleUnboundFails(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.RestoreBundle(context.Background(), Bundle{})
	require.Error(t, err)
	_, err = svc.ExportBundle(context.Background())
	require.Error(t, err)
}

func TestExportBundleLayoutGolden(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())
	require.NoError(t, svc.EnsureResources(ctx))

	bundle, err := svc.ExportBundle(ctx)
	require.NoError(t, err)
	data, err := json.MarshalIndent(bundle, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "export_bundle", data)
}
